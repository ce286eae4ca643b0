package commands

import (
	"errors"
	"fmt"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/services"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/spf13/cobra"
)

// NewFoldersCmd creates the folders command
func NewFoldersCmd(getRuntime func() *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder", "f"},
		Short:   "List and manage folders",
		Long:    `List, create and delete the folders notes are kept in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListFolders(cmd, getRuntime())
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListFolders(cmd, getRuntime())
		},
	}

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := getRuntime().NewStore()
			err := store.CreateFolder(cmd.Context(), args[0])
			printEvents(store.Notifier(), cmd.ErrOrStderr())
			return err
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [ID]",
		Short: "Delete a folder and its notes",
		Long:  `Delete a folder. Without an ID you pick the folder from a list.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteFolder(cmd, getRuntime(), args, yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(listCmd, createCmd, deleteCmd)

	return cmd
}

func runListFolders(cmd *cobra.Command, rt *Runtime) error {
	store := rt.NewStore()
	folders, err := store.ListFolders(cmd.Context())
	if err != nil {
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}

	if len(folders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No folders yet. Create one with 'nf folders create NAME'.")
		return nil
	}

	rows := make([][]string, len(folders))
	for i, f := range folders {
		rows[i] = []string{f.ID.String(), f.Name}
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "Name"}, rows)
	return nil
}

func runDeleteFolder(cmd *cobra.Command, rt *Runtime, args []string, yes bool) error {
	store := rt.NewStore()
	ctx := cmd.Context()

	var id api.ID
	if len(args) == 1 {
		id = api.ID(args[0])
	} else {
		folders, err := store.ListFolders(ctx)
		if err != nil {
			printEvents(store.Notifier(), cmd.ErrOrStderr())
			return err
		}
		names := make([]string, len(folders))
		for i, f := range folders {
			names[i] = f.Name
		}
		choice, err := utils.PromptUserChoice(cmd.InOrStdin(), cmd.OutOrStdout(), names, "folder")
		if err != nil {
			return err
		}
		id = folders[choice].ID
	}

	err := store.DeleteFolder(ctx, id, promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), yes))
	printEvents(store.Notifier(), cmd.ErrOrStderr())
	if errors.Is(err, services.ErrDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	return err
}
