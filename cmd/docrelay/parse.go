package main

import (
	"github.com/samvad-hq/docrelay/pkg/payloads"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newParseCmd(c *cli) *cobra.Command {
	opts := payloads.DefaultDocParseOptions()

	cmd := &cobra.Command{
		Use:   "parse <file-or-url>",
		Short: "Parse one document; local files are sent base64-encoded, URLs as-is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyModelDefault(cmd, &opts, c.v.GetString("docparse_model"))
			return c.app.Parse(cmd.Context(), args[0], opts)
		},
	}
	docParseFlags(cmd.Flags(), &opts)
	return cmd
}

func newBatchCmd(c *cli) *cobra.Command {
	opts := payloads.DefaultDocParseOptions()

	cmd := &cobra.Command{
		Use:   "batch <file-or-url>...",
		Short: "Parse many documents concurrently, skipping ones already parsed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyModelDefault(cmd, &opts, c.v.GetString("docparse_model"))
			_, err := c.app.Batch(cmd.Context(), args, opts)
			return err
		},
	}
	docParseFlags(cmd.Flags(), &opts)
	cmd.Flags().Int("concurrency", 0, "parallel requests")
	cmd.Flags().Float64("rate", 0, "max requests started per second (0 = unlimited)")
	cmd.Flags().String("storage-type", "", "none|bbolt")
	cmd.Flags().String("bbolt-path", "", "path of the processed-document database")
	cmd.Flags().String("sinks-file", "", "YAML/JSON file declaring outcome sinks")
	bindFlags(c.v, cmd, map[string]string{
		"batch_concurrency":     "concurrency",
		"batch_rate_per_second": "rate",
		"storage_type":          "storage-type",
		"bbolt_path":            "bbolt-path",
		"sinks_file":            "sinks-file",
	})
	return cmd
}

// applyModelDefault uses the configured model unless --model was given.
func applyModelDefault(cmd *cobra.Command, opts *payloads.DocParseOptions, configured string) {
	if !cmd.Flags().Changed("model") && configured != "" {
		opts.Model = configured
	}
}

func docParseFlags(fs *pflag.FlagSet, o *payloads.DocParseOptions) {
	fs.StringVar(&o.Model, "model", o.Model, "document-parse model")
	fs.StringVar(&o.PDFPwd, "pdf-pwd", o.PDFPwd, "password of an encrypted PDF")
	fs.IntVar(&o.PageStart, "page-start", o.PageStart, "first page, 0-based")
	fs.IntVar(&o.PageCount, "page-count", o.PageCount, "pages to parse (max 1000)")
	fs.StringVar(&o.ParseMode, "parse-mode", o.ParseMode, "auto|scan")
	fs.IntVar(&o.DPI, "dpi", o.DPI, "72|144|216")
	fs.IntVar(&o.ApplyDocumentTree, "apply-document-tree", o.ApplyDocumentTree, "build heading hierarchy (0|1)")
	fs.StringVar(&o.TableFlavor, "table-flavor", o.TableFlavor, "md|html|none")
	fs.StringVar(&o.GetImage, "get-image", o.GetImage, "none|page|objects|both")
	fs.StringVar(&o.ImageOutputType, "image-output-type", o.ImageOutputType, "default|base64str")
	fs.StringVar(&o.ParatextMode, "paratext-mode", o.ParatextMode, "none|annotation|body")
	fs.IntVar(&o.FormulaLevel, "formula-level", o.FormulaLevel, "0 all, 1 display only, 2 off")
	fs.IntVar(&o.UnderlineLevel, "underline-level", o.UnderlineLevel, "0 off, 1 blank only, 2 all")
	fs.IntVar(&o.ApplyMerge, "apply-merge", o.ApplyMerge, "merge paragraphs and tables (0|1)")
	fs.IntVar(&o.ApplyImageAnalysis, "apply-image-analysis", o.ApplyImageAnalysis, "LLM image analysis (0|1)")
	fs.IntVar(&o.ApplyChart, "apply-chart", o.ApplyChart, "chart recognition (0|1)")
	fs.IntVar(&o.CropDewarp, "crop-dewarp", o.CropDewarp, "crop and dewarp (0|1)")
	fs.IntVar(&o.RemoveWatermark, "remove-watermark", o.RemoveWatermark, "remove watermarks (0|1)")
	fs.IntVar(&o.MarkdownDetails, "markdown-details", o.MarkdownDetails, "return detail field (0|1)")
	fs.IntVar(&o.PageDetails, "page-details", o.PageDetails, "return pages field (0|1)")
	fs.IntVar(&o.RawOCR, "raw-ocr", o.RawOCR, "return raw OCR (0|1)")
	fs.IntVar(&o.CharDetails, "char-details", o.CharDetails, "return character positions (0|1)")
	fs.IntVar(&o.CatalogDetails, "catalog-details", o.CatalogDetails, "return catalog (0|1)")
	fs.IntVar(&o.GetExcel, "get-excel", o.GetExcel, "return Excel base64 (0|1)")
}
