package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
)

func NewResourcesCommand(globalOptions *GlobalOptions) *cobra.Command {
	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "List, add and delete catalog resources",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List resources, newest first (falls back to samples when the API is down)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := globalOptions.client().GetResources(commandContext(cmd))
			return printJSON(cmd.OutOrStdout(), items)
		},
	}

	var req resource.CreateRequest
	var resourceType string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a resource; omitted fields get server defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = resource.Type(resourceType)

			items := globalOptions.client().SaveResource(commandContext(cmd), req)
			if len(items) == 0 {
				return errors.New("resource was not saved")
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	addCmd.Flags().StringVar(&req.ID, "id", "", "Resource id (default: generated)")
	addCmd.Flags().StringVar(&req.Title, "title", "", "Title")
	addCmd.Flags().StringVar(&req.Description, "description", "", "Short description")
	addCmd.Flags().StringVar(&resourceType, "type", "", "article, resource or tool")
	addCmd.Flags().StringVar(&req.Author, "author", "", "Author")
	addCmd.Flags().StringSliceVar(&req.Tags, "tags", nil, "Comma separated tags")
	addCmd.Flags().StringVar(&req.Link, "link", "", "External link")
	addCmd.Flags().StringVar(&req.Content, "content", "", "Full text")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := globalOptions.client().DeleteResource(commandContext(cmd), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"success": true})
		},
	}

	// Add subcommands
	resourcesCmd.AddCommand(listCmd)
	resourcesCmd.AddCommand(addCmd)
	resourcesCmd.AddCommand(deleteCmd)

	return resourcesCmd
}
