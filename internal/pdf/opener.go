package pdf

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrRemote is returned for PDF links that point off the local site.
var ErrRemote = errors.New("PDF link is not a local file")

// Opener resolves publication PDF links against the site directory and
// opens them in a viewer.
type Opener struct {
	root   string
	reader string
}

// NewOpener creates an opener for PDFs under root. reader selects the
// viewer ("system", "skim", "preview", "zathura", "evince", "okular").
func NewOpener(root, reader string) *Opener {
	if reader == "" {
		reader = "system"
	}
	return &Opener{root: root, reader: reader}
}

// ResolvePath maps a publication's pdf link ("papers/x.pdf", "/papers/x.pdf")
// to an existing local file.
func (o *Opener) ResolvePath(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("no PDF path specified")
	}
	if strings.Contains(link, "://") {
		return "", fmt.Errorf("%w: %s", ErrRemote, link)
	}
	if o.root == "" {
		return "", fmt.Errorf("pdf_root not configured")
	}

	rel := filepath.FromSlash(strings.TrimLeft(link, "/"))
	fullPath := filepath.Join(o.root, rel)
	if !strings.HasPrefix(fullPath, filepath.Clean(o.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("PDF path escapes pdf_root: %s", link)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF not found: %s", fullPath)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	return fullPath, nil
}

// Open starts the configured viewer on fullPath without waiting for it.
func (o *Opener) Open(fullPath string) error {
	if _, err := os.Stat(fullPath); err != nil {
		return fmt.Errorf("checking PDF file: %w", err)
	}

	cmd, err := o.command(runtime.GOOS, fullPath)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func (o *Opener) command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		switch o.reader {
		case "skim":
			return exec.Command("open", "-a", "Skim", path), nil
		case "preview":
			return exec.Command("open", "-a", "Preview", path), nil
		}
		return exec.Command("open", path), nil
	case "linux":
		switch o.reader {
		case "zathura", "evince", "okular":
			return exec.Command(o.reader, path), nil
		}
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
