package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ridoystarlord/formgen/choices"
)

// FileResolver loads select_*_from_file lists stored next to the form and
// copies them into OutputDir so the compiled project stays self-contained.
type FileResolver struct {
	BaseDir   string
	OutputDir string
}

// ResolveList implements compiler.ListResolver.
func (r FileResolver) ResolveList(ref, labelColumn string) (*choices.List, error) {
	if !filepath.IsLocal(ref) {
		return nil, fmt.Errorf("invalid list file %q", ref)
	}
	src := filepath.Join(r.BaseDir, ref)
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("list file: %w", err)
	}
	path := src
	if r.OutputDir != "" {
		path = filepath.Join(r.OutputDir, ref)
		if err := copyFile(src, path); err != nil {
			return nil, err
		}
	}
	b, err := openFile(path)
	if err != nil {
		return nil, err
	}
	t, err := b.first()
	if err != nil {
		return nil, err
	}
	return choices.FromTable(ref, t, choices.ColName, labelColumn), nil
}

func copyFile(src, dst string) error {
	absSrc, _ := filepath.Abs(src)
	absDst, _ := filepath.Abs(dst)
	if absSrc == absDst {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying list file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copying list file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying list file: %w", err)
	}
	return out.Close()
}
