package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
)

var (
	extractFormat string
	extractTarget string

	extractPages   string
	extractTables  bool
	extractPath    string
	extractFlatten bool
	extractLang    string
	extractMode    string

	mailBackend string
	mailFolder  string
	mailUnread  bool
	mailMax     int
	mailBody    bool

	dvSelect  string
	dvFilter  string
	dvOrderBy string
	dvExpand  string
	dvTop     int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract records and print them formatted",
	Long: `Runs the same extraction pipeline as the MCP tools and prints the
formatted result to stdout. --format forces an output format; --target
names the tool that will consume the output and lets the formatter pick.`,
}

var extractPDFCmd = &cobra.Command{
	Use:   "pdf <path>",
	Short: "Extract text and tables from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractFile(cmd, driving.KindPDF, args[0], domain.ExtractOptions{
			Pages:         extractPages,
			IncludeTables: extractTables,
		})
	},
}

var extractEmailCmd = &cobra.Command{
	Use:   "email <path>",
	Short: "Extract headers and body from an .eml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractFile(cmd, driving.KindEmail, args[0], domain.ExtractOptions{})
	},
}

var extractJSONCmd = &cobra.Command{
	Use:   "json <json-or-path>",
	Short: "Extract records from inline JSON or a JSON/YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractionService() == nil {
			return errors.New("extraction service not configured")
		}
		out, err := extractionService().ExtractJSON(cmd.Context(), args[0], domain.ExtractOptions{
			Path:    extractPath,
			Flatten: extractFlatten,
		}, outputOptions())
		if err != nil {
			return fmt.Errorf("extract json: %w", err)
		}
		return printOutput(cmd, out)
	},
}

var extractCodeCmd = &cobra.Command{
	Use:   "code <path>",
	Short: "Extract declarations, imports or comments from source code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ParseCodeMode(extractMode)
		if err != nil {
			return err
		}
		return runExtractFile(cmd, driving.KindCode, args[0], domain.ExtractOptions{
			Language: extractLang,
			Mode:     mode,
		})
	},
}

var extractFileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Extract any supported file, chosen by extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractFile(cmd, driving.KindAuto, args[0], domain.ExtractOptions{
			Pages:   extractPages,
			Path:    extractPath,
			Flatten: extractFlatten,
		})
	},
}

var extractMailCmd = &cobra.Command{
	Use:   "mail [search]",
	Short: "List messages from a configured mailbox",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractionService() == nil {
			return errors.New("extraction service not configured")
		}
		q := driven.MailQuery{
			Folder:      mailFolder,
			UnreadOnly:  mailUnread,
			Max:         mailMax,
			IncludeBody: mailBody,
		}
		if len(args) == 1 {
			q.Search = args[0]
		}
		out, err := extractionService().QueryMail(cmd.Context(), mailBackend, q, outputOptions())
		if err != nil {
			return fmt.Errorf("query mail: %w", err)
		}
		return printOutput(cmd, out)
	},
}

var extractDataverseCmd = &cobra.Command{
	Use:   "dataverse <entity>",
	Short: "Read rows from a Dataverse table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractionService() == nil {
			return errors.New("extraction service not configured")
		}
		out, err := extractionService().QueryDataverse(cmd.Context(), driven.TabularQuery{
			Entity:  args[0],
			Select:  splitColumns(dvSelect),
			Filter:  dvFilter,
			OrderBy: dvOrderBy,
			Expand:  dvExpand,
			Top:     dvTop,
			Flatten: extractFlatten,
		}, outputOptions())
		if err != nil {
			return fmt.Errorf("query dataverse: %w", err)
		}
		return printOutput(cmd, out)
	},
}

func init() {
	pf := extractCmd.PersistentFlags()
	pf.StringVarP(&extractFormat, "format", "f", "", "output format: json, markdown, summary, key-value, csv")
	pf.StringVarP(&extractTarget, "target", "t", "", "tool that will consume the output, e.g. add_customer")

	extractPDFCmd.Flags().StringVar(&extractPages, "pages", "", `page selection, e.g. "1-5,8" (default all)`)
	extractPDFCmd.Flags().BoolVar(&extractTables, "tables", false, "detect layout tables")

	extractJSONCmd.Flags().StringVar(&extractPath, "path", "", "select a sub-node, e.g. data.items[0]")
	extractJSONCmd.Flags().BoolVar(&extractFlatten, "flatten", false, "flatten nested objects into dot keys")

	extractCodeCmd.Flags().StringVar(&extractLang, "language", "", "override language detection")
	extractCodeCmd.Flags().StringVar(&extractMode, "mode", "", "structure, imports, exports, comments or full")

	extractFileCmd.Flags().StringVar(&extractPages, "pages", "", "PDF page selection")
	extractFileCmd.Flags().StringVar(&extractPath, "path", "", "JSON/YAML sub-node")
	extractFileCmd.Flags().BoolVar(&extractFlatten, "flatten", false, "flatten nested objects into dot keys")

	extractMailCmd.Flags().StringVar(&mailBackend, "backend", "", "graph or gmail (default first configured)")
	extractMailCmd.Flags().StringVar(&mailFolder, "folder", "", "mail folder or label")
	extractMailCmd.Flags().BoolVar(&mailUnread, "unread", false, "only unread messages")
	extractMailCmd.Flags().IntVarP(&mailMax, "max", "n", 0, "maximum messages (default 10, at most 50)")
	extractMailCmd.Flags().BoolVar(&mailBody, "body", false, "include the full plain-text body")

	extractDataverseCmd.Flags().StringVar(&dvSelect, "select", "", "comma separated columns")
	extractDataverseCmd.Flags().StringVar(&dvFilter, "filter", "", "OData $filter expression")
	extractDataverseCmd.Flags().StringVar(&dvOrderBy, "orderby", "", "OData $orderby expression")
	extractDataverseCmd.Flags().StringVar(&dvExpand, "expand", "", "OData $expand expression")
	extractDataverseCmd.Flags().IntVarP(&dvTop, "top", "n", 0, "maximum rows")
	extractDataverseCmd.Flags().BoolVar(&extractFlatten, "flatten", false, "flatten expanded navigation objects")

	extractCmd.AddCommand(extractPDFCmd, extractEmailCmd, extractJSONCmd, extractCodeCmd,
		extractFileCmd, extractMailCmd, extractDataverseCmd)
	rootCmd.AddCommand(extractCmd)
}

func extractionService() driving.ExtractionService {
	if active == nil {
		return nil
	}
	return active.Extraction
}

func outputOptions() driving.OutputOptions {
	return driving.OutputOptions{Format: extractFormat, TargetTool: extractTarget}
}

func runExtractFile(cmd *cobra.Command, kind driving.FileKind, path string, opts domain.ExtractOptions) error {
	if extractionService() == nil {
		return errors.New("extraction service not configured")
	}
	out, err := extractionService().ExtractFile(cmd.Context(), kind, path, opts, outputOptions())
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	return printOutput(cmd, out)
}

// printOutput writes the rendered text, then any warnings to stderr.
func printOutput(cmd *cobra.Command, out *driving.Output) error {
	fmt.Fprintln(cmd.OutOrStdout(), out.Text)
	if out.Result != nil {
		for _, w := range out.Result.Metadata.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
	}
	return nil
}

func splitColumns(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
