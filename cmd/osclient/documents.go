package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/types"
)

type lookupFlags struct {
	routing  string
	includes []string
	excludes []string
	noSource bool
}

func (f *lookupFlags) register(cmd *cobra.Command, withSource bool) {
	cmd.Flags().StringVar(&f.routing, "routing", "", "Routing key the document was indexed with")
	if withSource {
		cmd.Flags().StringSliceVar(&f.includes, "source-includes", nil, "Source fields to return")
		cmd.Flags().StringSliceVar(&f.excludes, "source-excludes", nil, "Source fields to drop")
		cmd.Flags().BoolVar(&f.noSource, "no-source", false, "Do not return the document source")
	}
}

func newExistsCmd(a *app) *cobra.Command {
	var f lookupFlags
	cmd := &cobra.Command{
		Use:   "exists <index> <id>",
		Short: "Check whether a document exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := core.ExistsRequestOf(func(b *core.ExistsRequestBuilder) *core.ExistsRequestBuilder {
				b.Index(args[0]).ID(args[1])
				if f.routing != "" {
					b.Routing(f.routing)
				}
				return b
			})
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			found, err := c.Exists(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), found)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var f lookupFlags
	cmd := &cobra.Command{
		Use:   "get <index> <id>",
		Short: "Fetch a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := core.GetRequestOf(func(b *core.GetRequestBuilder) *core.GetRequestBuilder {
				b.Index(args[0]).ID(args[1])
				if f.routing != "" {
					b.Routing(f.routing)
				}
				if f.noSource {
					b.Source(types.SourceFetch(false))
				}
				if len(f.includes) > 0 {
					b.SourceIncludes(f.includes...)
				}
				if len(f.excludes) > 0 {
					b.SourceExcludes(f.excludes...)
				}
				return b
			})
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Get(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	f.register(cmd, true)
	return cmd
}

func newIndexCmd(a *app) *cobra.Command {
	var (
		doc     string
		file    string
		routing string
		create  bool
		refresh string
	)
	cmd := &cobra.Command{
		Use:   "index <index> [id]",
		Short: "Create or replace a document",
		Long: `Index a JSON document. The body comes from --doc, --file, or stdin
when neither is given. Without an id the server assigns one.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readDocument(cmd.InOrStdin(), doc, file)
			if err != nil {
				return err
			}
			var rf types.Refresh
			if refresh != "" {
				if err := rf.UnmarshalText([]byte(refresh)); err != nil {
					return err
				}
			}
			req, err := core.IndexRequestOf(func(b *core.IndexRequestBuilder) *core.IndexRequestBuilder {
				b.Index(args[0]).DocumentJSON(body)
				if len(args) == 2 {
					b.ID(args[1])
				}
				if routing != "" {
					b.Routing(routing)
				}
				if create {
					b.OpType(types.OpTypeCreate)
				}
				if refresh != "" {
					b.Refresh(rf)
				}
				return b
			})
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Index(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&doc, "doc", "", "Document JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the document from a file")
	cmd.Flags().StringVar(&routing, "routing", "", "Routing key")
	cmd.Flags().BoolVar(&create, "create", false, "Fail if the document already exists")
	cmd.Flags().StringVar(&refresh, "refresh", "", "Refresh policy: true, false, wait_for")
	cmd.MarkFlagsMutuallyExclusive("doc", "file")
	return cmd
}

func readDocument(stdin io.Reader, doc, file string) ([]byte, error) {
	switch {
	case doc != "":
		return []byte(doc), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read document from stdin: %w", err)
		}
		return data, nil
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var routing string
	cmd := &cobra.Command{
		Use:   "delete <index> <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := core.DeleteRequestOf(func(b *core.DeleteRequestBuilder) *core.DeleteRequestBuilder {
				b.Index(args[0]).ID(args[1])
				if routing != "" {
					b.Routing(routing)
				}
				return b
			})
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Delete(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&routing, "routing", "", "Routing key")
	return cmd
}
