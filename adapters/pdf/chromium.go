package docpdf

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-docgen/docgen"
)

// sheet is a paper size in inches, portrait side up.
type sheet struct {
	width  float64
	height float64
}

func (s sheet) turned() sheet {
	return sheet{width: s.height, height: s.width}
}

var sheets = map[string]sheet{
	"A3":     {width: 11.69, height: 16.54},
	"A4":     {width: 8.27, height: 11.69},
	"A5":     {width: 5.83, height: 8.27},
	"LETTER": {width: 8.5, height: 11},
	"LEGAL":  {width: 8.5, height: 14},
}

// unitsPerInch converts CSS lengths to the inches Chromium expects.
var unitsPerInch = map[string]float64{
	"in": 1,
	"cm": 2.54,
	"mm": 25.4,
	"pt": 72,
	"px": 96,
}

var (
	lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)
	headOpen      = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	htmlOpen      = regexp.MustCompile(`(?i)<html(\s[^>]*)?>`)
)

// ChromiumEngine prints HTML through one headless Chromium shared by every
// render. The browser starts on first use and stops on Close; each render
// gets its own tab.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string
	Defaults    Options

	start    sync.Once
	startErr error
	browser  context.Context
	stop     []context.CancelFunc
}

// Render prints req.HTML. Canceling ctx closes the tab.
func (e *ChromiumEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e == nil {
		return nil, docgen.NewError(docgen.KindUpstream, "chromium engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := mergeOptions(e.defaults(), req.Options)
	params, err := opts.printParams()
	if err != nil {
		return nil, err
	}

	browser, err := e.launch()
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, "chromium browser unavailable", err)
	}
	tab, closeTab := chromedp.NewContext(browser)
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		tab, cancel = context.WithTimeout(tab, e.Timeout)
		defer cancel()
	}

	var pdf []byte
	actions := printActions(withBaseURL(req.HTML, opts.BaseURL), opts.ExternalAssetsPolicy, params, &pdf)
	if err := chromedp.Run(tab, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, docgen.NewError(docgen.KindCanceled, "chromium print canceled", ctxErr)
		}
		return nil, docgen.NewError(docgen.KindUpstream, "chromium print failed", err)
	}
	return pdf, nil
}

// Close stops the browser if it was started.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	for i := len(e.stop) - 1; i >= 0; i-- {
		e.stop[i]()
	}
	e.stop = nil
	return nil
}

func (e *ChromiumEngine) launch() (context.Context, error) {
	e.start.Do(func() {
		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			opts = append(opts, chromedp.ExecPath(e.BrowserPath))
		}
		opts = append(opts, chromedp.Flag("headless", e.Headless))
		opts = append(opts, browserFlags(e.Args)...)

		allocator, stopAllocator := chromedp.NewExecAllocator(context.Background(), opts...)
		browser, stopBrowser := chromedp.NewContext(allocator)
		e.stop = append(e.stop, stopAllocator, stopBrowser)
		// An empty run starts Chromium so no tab owns the browser.
		if err := chromedp.Run(browser); err != nil {
			e.startErr = err
			return
		}
		e.browser = browser
	})
	if e.startErr != nil {
		return nil, e.startErr
	}
	return e.browser, nil
}

func (e *ChromiumEngine) defaults() Options {
	opts := e.Defaults
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.PrintBackground == nil {
		opts.PrintBackground = boolPtr(true)
	}
	return opts
}

func printActions(doc []byte, assets ExternalAssetsPolicy, params *page.PrintToPDFParams, out *[]byte) []chromedp.Action {
	var actions []chromedp.Action
	if assets == ExternalAssetsBlock {
		actions = append(actions, network.Enable(), network.SetBlockedURLs([]string{"http://*", "https://*"}))
	}
	return append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := params.Do(ctx)
			*out = pdf
			return err
		}),
	)
}

// printParams converts the options to Chromium print parameters. A named
// page size sets the paper, turned sideways for landscape. Without a page
// size Chromium follows the document's @page rule.
func (o Options) printParams() (*page.PrintToPDFParams, error) {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0.1 || scale > 2.0 {
		return nil, docgen.NewError(docgen.KindValidation, "pdf scale must be between 0.1 and 2.0", nil)
	}
	params := page.PrintToPDF().WithScale(scale)
	if o.PrintBackground != nil {
		params = params.WithPrintBackground(*o.PrintBackground)
	}
	if o.preferCSS() {
		params = params.WithPreferCSSPageSize(true)
	}

	landscape := o.Landscape != nil && *o.Landscape
	if o.PageSize != "" {
		paper, ok := sheets[strings.ToUpper(strings.TrimSpace(o.PageSize))]
		if !ok {
			return nil, docgen.NewError(docgen.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", o.PageSize), nil)
		}
		if landscape {
			paper = paper.turned()
		}
		params = params.WithPaperWidth(paper.width).WithPaperHeight(paper.height)
	} else if landscape {
		params = params.WithLandscape(true)
	}

	margins := []struct {
		value string
		field *float64
	}{
		{o.MarginTop, &params.MarginTop},
		{o.MarginBottom, &params.MarginBottom},
		{o.MarginLeft, &params.MarginLeft},
		{o.MarginRight, &params.MarginRight},
	}
	for _, margin := range margins {
		if margin.value == "" {
			continue
		}
		inches, err := inchesOf(margin.value)
		if err != nil {
			return nil, err
		}
		*margin.field = inches
	}
	return params, nil
}

func (o Options) preferCSS() bool {
	if o.PreferCSSPageSize != nil {
		return *o.PreferCSSPageSize
	}
	return o.PageSize == ""
}

// inchesOf parses a CSS length; a bare number is in inches.
func inchesOf(value string) (float64, error) {
	match := lengthPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, docgen.NewError(docgen.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, docgen.NewError(docgen.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}
	unit := strings.ToLower(match[2])
	if unit == "" {
		unit = "in"
	}
	per, ok := unitsPerInch[unit]
	if !ok {
		return 0, docgen.NewError(docgen.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
	return amount / per, nil
}

// withBaseURL adds a <base> element so relative image and font references in
// the layout resolve against baseURL. Documents that already carry one are
// left alone.
func withBaseURL(doc []byte, baseURL string) []byte {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || strings.Contains(strings.ToLower(string(doc)), "<base") {
		return doc
	}
	tag := `<base href="` + html.EscapeString(baseURL) + `">`
	if loc := headOpen.FindIndex(doc); loc != nil {
		return splice(doc, loc[1], tag)
	}
	if loc := htmlOpen.FindIndex(doc); loc != nil {
		return splice(doc, loc[1], "<head>"+tag+"</head>")
	}
	return splice(doc, 0, tag)
}

func splice(doc []byte, at int, insert string) []byte {
	out := make([]byte, 0, len(doc)+len(insert))
	out = append(out, doc[:at]...)
	out = append(out, insert...)
	return append(out, doc[at:]...)
}

// browserFlags turns "--name" and "--name=value" arguments into allocator
// flags.
func browserFlags(args []string) []chromedp.ExecAllocatorOption {
	flags := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			flags = append(flags, chromedp.Flag(name, value))
			continue
		}
		flags = append(flags, chromedp.Flag(arg, true))
	}
	return flags
}
