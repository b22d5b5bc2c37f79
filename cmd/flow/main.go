// Command flow lays out a document description and dumps the
// positioned pages as JSON. The input is a JSON node tree, a Markdown
// file or an HTML file, selected by extension or flag.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/docflow"
	"github.com/wudi/docflow/content"
	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/fonts"
	"github.com/wudi/docflow/layout"
	"github.com/wudi/docflow/scripting"
)

type options struct {
	inputPath string
	fontPath  string
	fontName  string
	format    string
	watermark string
	footerJS  string
	outPath   string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flow: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "flow: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/flow [flags] <document>\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.fontPath, "font", "", "TTF font file to register (required)")
	flag.StringVar(&opts.fontName, "font-name", "Roboto", "Name the font is registered under")
	flag.StringVar(&opts.format, "format", "", "Input format: json, md or html (default by extension)")
	flag.StringVar(&opts.watermark, "watermark", "", "Watermark text drawn across every page")
	flag.StringVar(&opts.footerJS, "footer-js", "", "JavaScript function(currentPage, pageCount, pageSize) producing the footer")
	flag.StringVar(&opts.outPath, "out", "", "Output file (default stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return opts, fmt.Errorf("expected exactly one document argument")
	}
	opts.inputPath = flag.Arg(0)
	if opts.fontPath == "" {
		return opts, fmt.Errorf("-font is required")
	}
	if opts.format == "" {
		switch strings.ToLower(filepath.Ext(opts.inputPath)) {
		case ".md", ".markdown":
			opts.format = "md"
		case ".html", ".htm":
			opts.format = "html"
		default:
			opts.format = "json"
		}
	}
	return opts, nil
}

func run(opts options) error {
	fontData, err := os.ReadFile(opts.fontPath)
	if err != nil {
		return err
	}
	store := fonts.NewStore()
	if err := store.RegisterTTF(opts.fontName, fontData); err != nil {
		return err
	}

	root, err := loadContent(opts)
	if err != nil {
		return err
	}

	var layoutOpts []layout.Option
	if opts.watermark != "" {
		layoutOpts = append(layoutOpts, layout.WithWatermark(&layout.WatermarkSpec{Text: opts.watermark}))
	}
	if opts.footerJS != "" {
		footer, err := scripting.DynamicContent(opts.footerJS)
		if err != nil {
			return err
		}
		layoutOpts = append(layoutOpts, layout.WithFooter(footer))
	}

	doc := docflow.New(store, layoutOpts...)
	doc.Content = root
	doc.Defaults = &document.Style{Font: opts.fontName}
	pages, err := doc.Layout()
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(pages))
}

func loadContent(opts options) (*document.Node, error) {
	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case "md":
		return content.Markdown(data)
	case "html":
		return content.HTML(string(data))
	case "json":
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		node, err := docflow.FromJSONValue(v)
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}
}

type pageSummary struct {
	Number    int           `json:"number"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Watermark string        `json:"watermark,omitempty"`
	Lines     []lineSummary `json:"lines"`
	Vectors   int           `json:"vectors"`
	Images    int           `json:"images"`
}

type lineSummary struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func summarize(pages []*layout.Page) []pageSummary {
	out := make([]pageSummary, len(pages))
	for i, page := range pages {
		s := pageSummary{Number: i + 1, Width: page.Size.Width, Height: page.Size.Height}
		if page.Watermark != nil {
			s.Watermark = page.Watermark.Text
		}
		for _, item := range page.Items {
			switch item.Type {
			case layout.ItemLine:
				var sb strings.Builder
				for _, inline := range item.Line.Inlines {
					sb.WriteString(inline.Text)
				}
				s.Lines = append(s.Lines, lineSummary{Text: sb.String(), X: item.X, Y: item.Y})
			case layout.ItemVector:
				s.Vectors++
			case layout.ItemImage, layout.ItemQR:
				s.Images++
			}
		}
		out[i] = s
	}
	return out
}
