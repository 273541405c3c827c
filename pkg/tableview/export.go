package tableview

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// CSV renders the export document and returns it with its data row count.
// The document is the header of visible column labels followed by one line
// per exported record, joined by "\n". Rows come from the filtered and
// sorted set, all pages; with OnlySelected only selected records of that set
// are kept.
func (v *View[T]) CSV(opts types.ExportOptions) (string, int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := v.visibleIndexes()
	var b strings.Builder

	for j, c := range visible {
		if j > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(v.columns[c].Label))
	}
	b.WriteByte('\n')

	n := 0
	for _, i := range v.filtered {
		if opts.OnlySelected && !v.selected[v.ids[i]] {
			continue
		}
		if n > 0 {
			b.WriteByte('\n')
		}
		for j, c := range visible {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(v.cells[i][c]))
		}
		n++
	}
	return b.String(), n
}

// WriteCSV writes the export document to w and returns the data row count.
func (v *View[T]) WriteCSV(w io.Writer, opts types.ExportOptions) (int, error) {
	doc, n := v.CSV(opts)
	if _, err := io.WriteString(w, doc); err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrExportFailed, err)
	}
	return n, nil
}

// Export renders the document and hands it to the configured sink. Errors and
// panics raised by the sink are returned wrapped in types.ErrExportFailed.
// Concurrent exports are delivered one at a time.
func (v *View[T]) Export(opts types.ExportOptions) (err error) {
	v.exportMu.Lock()
	defer v.exportMu.Unlock()

	name := opts.Filename
	if name == "" {
		name = types.DefaultExportName
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: sink panicked: %v", types.ErrExportFailed, r)
		}
		if err != nil {
			v.logger.Warn("export failed", zap.String("file", name), zap.Error(err))
		}
	}()

	if v.sink == nil {
		return fmt.Errorf("%w: no sink configured", types.ErrExportFailed)
	}

	doc, n := v.CSV(opts)
	if err := v.sink.Save(name, types.CSVMimeType, []byte(doc)); err != nil {
		return fmt.Errorf("%w: %w", types.ErrExportFailed, err)
	}

	v.logger.Debug("export delivered",
		zap.String("file", name),
		zap.Int("rows", n),
		zap.Bool("only_selected", opts.OnlySelected))
	return nil
}

// escapeField quotes a field containing a comma, quote or line break and
// doubles any quotes inside it.
func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
