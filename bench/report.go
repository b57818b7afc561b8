package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/safearchive/zip"
	"github.com/google/safeopen"
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Point is the average of the trials over one set of elements.
type Point struct {
	Elements  int
	AvgMicros float64
	RSS       uint64
}

// Series holds the points of one operation on one kind of tree, in
// ascending number of elements.
type Series struct {
	Kind   tree.Kind
	Op     Op
	Repeat int
	Points []Point
}

func (s *Series) Filename() string {
	return s.Kind.String() + "_" + string(s.Op) + ".dat"
}

// Overall is the average over all the sets of elements.
func (s *Series) Overall() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Points {
		sum += p.AvgMicros
	}
	return sum / float64(len(s.Points))
}

// WriteTo writes the gnuplot data, one "elements, time" line per point.
func (s *Series) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	_, _ = fmt.Fprintf(cw, "# %s %s Benchmarks\n", strings.ToUpper(s.Kind.String()), strings.ToUpper(string(s.Op)))
	_, _ = fmt.Fprintf(cw, "# Elements, Time (microsec. average for %d trials)\n", s.Repeat)
	for _, p := range s.Points {
		_, _ = fmt.Fprintf(cw, "%d, %.3f\n", p.Elements, p.AvgMicros)
	}
	_, _ = fmt.Fprintf(cw, "\n# Overall average for each set of elements with %d trials:\n# %.3f\n", s.Repeat, s.Overall())
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}

// Report is the result of a run.
type Report struct {
	RunID  string
	Series []*Series
	Files  []string
}

func createBeneath(dir, name string) (*os.File, error) {
	f, err := safeopen.OpenFileBeneath(dir, name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[bench] unable to create "+name)
	}
	return f, nil
}

// writeDataFiles writes every series into dir and returns the filenames.
func writeDataFiles(dir string, series []*Series) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[bench] unable to create "+dir)
	}
	files := make([]string, 0, len(series))
	var merr error
	for _, s := range series {
		f, err := createBeneath(dir, s.Filename())
		if err != nil {
			merr = multierr.Append(merr, err)
			continue
		}
		_, err = s.WriteTo(f)
		err = multierr.Append(err, f.Close())
		if err != nil {
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[bench] unable to write "+s.Filename()))
			continue
		}
		files = append(files, s.Filename())
	}
	return files, merr
}

// archiveFiles packs the files of dir into the zip name, also under dir.
func archiveFiles(dir, name string, files []string) (err error) {
	out, err := createBeneath(dir, name)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)
	defer func() {
		err = multierr.Combine(err, zw.Close(), out.Close())
	}()

	for _, filename := range files {
		if err = addToArchive(zw, dir, filename); err != nil {
			return err
		}
	}
	return nil
}

func addToArchive(zw *zip.Writer, dir, filename string) error {
	in, err := safeopen.OpenBeneath(dir, filename)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "[bench] unable to open "+filename)
	}
	defer func() {
		_ = in.Close()
	}()
	entry, err := zw.Create(filename)
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	_, err = io.Copy(entry, in)
	return infra.WrapErrorStack(err)
}

// ArchiveEntries lists the data files of an archive. Entries escaping the
// archive root are rejected by the reader.
func ArchiveEntries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[bench] unable to open archive "+filepath.Base(path))
	}
	defer func() {
		_ = r.Close()
	}()
	r.SetSecurityMode(r.GetSecurityMode() | zip.MaximumSecurityMode)
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.Mode().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}
