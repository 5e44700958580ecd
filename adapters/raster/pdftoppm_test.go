package docraster

import (
	"context"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goliatone/go-docgen/docgen"
)

func TestPDFToPPM_Args(t *testing.T) {
	args := PDFToPPM{DPI: 72, Args: []string{"-aa", "yes"}}.args()
	want := []string{"-png", "-r", "72", "-f", "1", "-l", "1", "-singlefile", "-aa", "yes", "-"}
	if !slices.Equal(args, want) {
		t.Fatalf("unexpected args %v", args)
	}
	if got := (PDFToPPM{}).args()[2]; got != "150" {
		t.Fatalf("expected default dpi 150, got %s", got)
	}
}

func TestPDFToPPM_EmptyPayload(t *testing.T) {
	_, err := PDFToPPM{}.Rasterize(context.Background(), nil)
	if docgen.KindFromError(err) != docgen.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPDFToPPM_MissingBinary(t *testing.T) {
	r := PDFToPPM{Command: filepath.Join(t.TempDir(), "missing-pdftoppm")}
	if err := r.Probe(context.Background()); docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestProbePDF(t *testing.T) {
	pdf, err := probePDF()
	if err != nil {
		t.Fatalf("probe pdf: %v", err)
	}
	if string(pdf[:4]) != "%PDF" {
		t.Fatalf("expected pdf magic, got %q", pdf[:4])
	}
}

func TestPDFToPPM_Rasterize(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not installed")
	}
	pdf, err := probePDF()
	if err != nil {
		t.Fatalf("probe pdf: %v", err)
	}
	img, err := PDFToPPM{DPI: 36}.Rasterize(context.Background(), pdf)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if img.Bounds().Dx() == 0 {
		t.Fatalf("expected non-empty image")
	}
}
