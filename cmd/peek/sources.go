package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flavono123/peek/internal/kube"
	"github.com/flavono123/peek/internal/source"
)

func newSQLiteCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sqlite DB [TABLE]",
		Short: "Explore the rows of a SQLite table, or every table",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := args[0]
			table := ""
			if len(args) == 2 {
				table = args[1]
			}

			load := func() (any, error) {
				return source.LoadSQLite(cmd.Context(), db, table, limit)
			}
			root, err := load()
			if err != nil {
				return err
			}

			label := db
			if abs, err := filepath.Abs(db); err == nil {
				label = abs
			}
			return run(cmd, opts, target{
				label:  "sqlite:" + label + "#" + table,
				root:   root,
				reload: load,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", source.DefaultRowLimit, "maximum rows per table")
	return cmd
}

func newKubeCommand(opts *rootOptions) *cobra.Command {
	var (
		kubeContext string
		namespace   string
	)

	cmd := &cobra.Command{
		Use:   "kube [RESOURCE]",
		Short: "Explore Kubernetes objects, or the listable resources",
		Long: `Lists objects of RESOURCE ("pods", "deployments.apps",
"deployments.v1.apps") across all namespaces unless --namespace is set.
Without RESOURCE, explores the resources the server can list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := kube.NewClient(kubeContext)
			if err != nil {
				return err
			}

			ctxName := kubeContext
			if ctxName == "" {
				ctxName, _ = kube.CurrentContext()
			}

			var load func() (any, error)
			label := "kube:" + ctxName + "/"
			if len(args) == 0 {
				load = func() (any, error) { return client.Resources() }
				label += "*"
			} else {
				gvr, err := client.Resolve(args[0])
				if err != nil {
					return err
				}
				load = func() (any, error) { return client.ListObjects(cmd.Context(), gvr, namespace) }
				label += gvr.GroupResource().String()
				if namespace != "" {
					label += "@" + namespace
				}
			}

			root, err := load()
			if err != nil {
				return err
			}
			return run(cmd, opts, target{label: label, root: root, reload: load})
		},
	}

	cmd.Flags().StringVar(&kubeContext, "context", "", "kubeconfig context (default current)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (default all)")
	return cmd
}

func newEnvCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env [PREFIX]",
		Short: "Explore environment variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			load := func() (any, error) { return source.Environ(prefix), nil }
			root, _ := load()
			return run(cmd, opts, target{
				label:  fmt.Sprintf("env:%s", prefix),
				root:   root,
				reload: load,
			})
		},
	}
}
