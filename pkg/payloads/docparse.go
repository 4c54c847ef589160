// Package payloads builds request bodies for the document-parse and chat-completion endpoints.
package payloads

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
)

const (
	DefaultDocParseModel = "hehe-tywd"
	MaxPageCount         = 1000
)

// DocParseOptions mirrors the scalar options of the document-parse endpoint.
// Integer flags are 0/1 switches unless noted.
type DocParseOptions struct {
	Model     string `mapstructure:"model"`
	PDFPwd    string `mapstructure:"pdf_pwd"`
	PageStart int    `mapstructure:"page_start"`
	PageCount int    `mapstructure:"page_count"`

	ParseMode string `mapstructure:"parse_mode"` // auto | scan
	DPI       int    `mapstructure:"dpi"`        // 72 | 144 | 216

	ApplyDocumentTree int    `mapstructure:"apply_document_tree"`
	TableFlavor       string `mapstructure:"table_flavor"`      // md | html | none
	GetImage          string `mapstructure:"get_image"`         // none | page | objects | both
	ImageOutputType   string `mapstructure:"image_output_type"` // default | base64str
	ParatextMode      string `mapstructure:"paratext_mode"`     // none | annotation | body

	FormulaLevel       int `mapstructure:"formula_level"`   // 0 all, 1 display only, 2 off
	UnderlineLevel     int `mapstructure:"underline_level"` // 0 off, 1 blank only, 2 all
	ApplyMerge         int `mapstructure:"apply_merge"`
	ApplyImageAnalysis int `mapstructure:"apply_image_analysis"`
	ApplyChart         int `mapstructure:"apply_chart"`

	CropDewarp      int `mapstructure:"crop_dewarp"`
	RemoveWatermark int `mapstructure:"remove_watermark"`

	MarkdownDetails int `mapstructure:"markdown_details"`
	PageDetails     int `mapstructure:"page_details"`
	RawOCR          int `mapstructure:"raw_ocr"`
	CharDetails     int `mapstructure:"char_details"`
	CatalogDetails  int `mapstructure:"catalog_details"`
	GetExcel        int `mapstructure:"get_excel"`
}

// DefaultDocParseOptions returns the option set the endpoint documentation recommends for scanned PDFs.
func DefaultDocParseOptions() DocParseOptions {
	return DocParseOptions{
		Model:             DefaultDocParseModel,
		PageCount:         MaxPageCount,
		ParseMode:         "scan",
		DPI:               144,
		ApplyDocumentTree: 1,
		TableFlavor:       "html",
		GetImage:          "none",
		ImageOutputType:   "default",
		ParatextMode:      "annotation",
		ApplyMerge:        1,
		MarkdownDetails:   1,
		PageDetails:       1,
	}
}

// Validate checks enumerations and ranges before anything is sent.
func (o DocParseOptions) Validate() error {
	var errs []error
	if strings.TrimSpace(o.Model) == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if o.PageStart < 0 {
		errs = append(errs, fmt.Errorf("page_start must be >= 0, got %d", o.PageStart))
	}
	if o.PageCount < 1 || o.PageCount > MaxPageCount {
		errs = append(errs, fmt.Errorf("page_count must be within 1..%d, got %d", MaxPageCount, o.PageCount))
	}
	errs = append(errs,
		oneOf("parse_mode", o.ParseMode, "auto", "scan"),
		oneOfInt("dpi", o.DPI, 72, 144, 216),
		oneOf("table_flavor", o.TableFlavor, "md", "html", "none"),
		oneOf("get_image", o.GetImage, "none", "page", "objects", "both"),
		oneOf("image_output_type", o.ImageOutputType, "default", "base64str"),
		oneOf("paratext_mode", o.ParatextMode, "none", "annotation", "body"),
		oneOfInt("formula_level", o.FormulaLevel, 0, 1, 2),
		oneOfInt("underline_level", o.UnderlineLevel, 0, 1, 2),
	)
	flags := map[string]int{
		"apply_document_tree":  o.ApplyDocumentTree,
		"apply_merge":          o.ApplyMerge,
		"apply_image_analysis": o.ApplyImageAnalysis,
		"apply_chart":          o.ApplyChart,
		"crop_dewarp":          o.CropDewarp,
		"remove_watermark":     o.RemoveWatermark,
		"markdown_details":     o.MarkdownDetails,
		"page_details":         o.PageDetails,
		"raw_ocr":              o.RawOCR,
		"char_details":         o.CharDetails,
		"catalog_details":      o.CatalogDetails,
		"get_excel":            o.GetExcel,
	}
	for name, v := range flags {
		errs = append(errs, oneOfInt(name, v, 0, 1))
	}
	return errors.Join(errs...)
}

// Payload builds the request body. input is either base64 document content or a URL.
func (o DocParseOptions) Payload(input string) apiclient.Payload {
	return apiclient.Payload{
		"model":                o.Model,
		"input":                input,
		"pdf_pwd":              o.PDFPwd,
		"page_start":           o.PageStart,
		"page_count":           o.PageCount,
		"parse_mode":           o.ParseMode,
		"dpi":                  o.DPI,
		"apply_document_tree":  o.ApplyDocumentTree,
		"table_flavor":         o.TableFlavor,
		"get_image":            o.GetImage,
		"image_output_type":    o.ImageOutputType,
		"paratext_mode":        o.ParatextMode,
		"formula_level":        o.FormulaLevel,
		"underline_level":      o.UnderlineLevel,
		"apply_merge":          o.ApplyMerge,
		"apply_image_analysis": o.ApplyImageAnalysis,
		"apply_chart":          o.ApplyChart,
		"crop_dewarp":          o.CropDewarp,
		"remove_watermark":     o.RemoveWatermark,
		"markdown_details":     o.MarkdownDetails,
		"page_details":         o.PageDetails,
		"raw_ocr":              o.RawOCR,
		"char_details":         o.CharDetails,
		"catalog_details":      o.CatalogDetails,
		"get_excel":            o.GetExcel,
	}
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, "|"), v)
}

func oneOfInt(name string, v int, allowed ...int) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %d", name, allowed, v)
}
