package renderer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Artifact is one rendered output file.
type Artifact struct {
	Format Format
	Path   string
}

// RenderAll renders doc in every format concurrently and writes <dir>/<base>.<format>.
// It fails as a whole if any format fails; files already written are left in place.
func RenderAll(ctx context.Context, r PDFRenderer, doc resume.Document, dir, base string, formats []Format) (artifacts []Artifact, err error) {
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
		return artifacts, err
	}

	artifacts = make([]Artifact, len(formats))
	g, gctx := errgroup.WithContext(ctx)

	for i, format := range formats {
		g.Go(func() (err error) {
			var data []byte
			data, err = r.Render(gctx, doc, format)
			if err != nil {
				err = errors.Wrapf(err, "render %s", format)
				return err
			}

			path := filepath.Join(dir, base+"."+string(format))
			err = os.WriteFile(path, data, 0600)
			if err != nil {
				err = errors.Wrapf(err, "failed to write %s", path)
				return err
			}

			artifacts[i] = Artifact{Format: format, Path: path}
			return err
		})
	}

	err = g.Wait()
	if err != nil {
		artifacts = nil
		return artifacts, err
	}

	return artifacts, err
}
