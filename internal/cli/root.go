package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "oasdoc",
		Short:   "OpenAPI documentation toolkit",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(
		EndpointCommand(),
		SchemaCommand(),
		ListCommand(),
		GenerateCommand(),
		VerifyCommand(),
		ErrorsReportCommand(),
	)

	return root
}
