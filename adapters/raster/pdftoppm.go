package docraster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/jung-kurt/gofpdf"
)

const (
	// DefaultDPI renders A4 at roughly the width of the canvas tier.
	DefaultDPI = 150
	// DefaultTimeout bounds one pdftoppm run.
	DefaultTimeout = 30 * time.Second
)

// PDFToPPM rasterizes PDFs by piping them through pdftoppm.
type PDFToPPM struct {
	Command string
	DPI     int
	Args    []string
	Env     []string
	Timeout time.Duration
}

var _ docgen.Rasterizer = PDFToPPM{}

// Rasterize renders the first page of pdf as an image.
func (r PDFToPPM) Rasterize(ctx context.Context, pdf []byte) (image.Image, error) {
	if len(pdf) == 0 {
		return nil, docgen.NewError(docgen.KindValidation, "pdf payload is empty", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.command(), r.args()...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.Stdin = bytes.NewReader(pdf)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := cmdCtx.Err(); ctxErr != nil {
			return nil, docgen.NewError(docgen.KindFromError(ctxErr), "pdftoppm did not finish", ctxErr)
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "pdftoppm failed"
		}
		return nil, docgen.NewError(docgen.KindUpstream, message, err)
	}

	img, err := imaging.Decode(&stdout)
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, "decode pdftoppm output", err)
	}
	return img, nil
}

// Probe rasterizes a one line PDF built in memory.
func (r PDFToPPM) Probe(ctx context.Context) error {
	pdf, err := probePDF()
	if err != nil {
		return err
	}
	img, err := r.Rasterize(ctx, pdf)
	if err != nil {
		return err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return docgen.NewError(docgen.KindUpstream, "pdftoppm produced an empty image", nil)
	}
	return nil
}

func (r PDFToPPM) command() string {
	if cmd := strings.TrimSpace(r.Command); cmd != "" {
		return cmd
	}
	return "pdftoppm"
}

// args selects page one as a single PNG written to stdout.
func (r PDFToPPM) args() []string {
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	args := []string{"-png", "-r", strconv.Itoa(dpi), "-f", "1", "-l", "1", "-singlefile"}
	args = append(args, r.Args...)
	return append(args, "-")
}

func probePDF() ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, "probe")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, docgen.NewError(docgen.KindInternal, fmt.Sprintf("build probe pdf: %v", err), err)
	}
	return buf.Bytes(), nil
}
