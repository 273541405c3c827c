package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

func TestFileSinkSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	s := &FileSink{Dir: dir}

	require.NoError(t, s.Save("table.csv", types.CSVMimeType, []byte("Name\nAarav")))
	require.NoError(t, s.Save("table.csv", types.CSVMimeType, []byte("Name\nIsha")))

	data, err := os.ReadFile(filepath.Join(dir, "table.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Name\nIsha", string(data), "later exports replace earlier ones")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileSinkPath(t *testing.T) {
	s := &FileSink{Dir: "/srv/out"}
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "table.csv", "/srv/out/table.csv", false},
		{"directories stripped", "../../etc/passwd", "/srv/out/passwd", false},
		{"empty", "", "", true},
		{"dot", ".", "", true},
		{"root", "/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Path(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := WriterSink{W: &buf}

	require.NoError(t, s.Save("a.csv", types.CSVMimeType, []byte("Name\nAarav")))
	require.NoError(t, s.Save("b.csv", types.CSVMimeType, []byte("Name\n")))
	assert.Equal(t, "Name\nAarav\nName\n", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWriterSinkError(t *testing.T) {
	assert.Error(t, WriterSink{W: brokenWriter{}}.Save("a.csv", types.CSVMimeType, []byte("x")))
}
