package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFS struct {
	files    map[string][]byte
	writeErr error
	mu       sync.Mutex
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

func (m *memFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memFS) WriteFile(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = data
	return nil
}

type recordingPrompter struct {
	answer   bool
	messages []string
}

func (p *recordingPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.messages = append(p.messages, message)
	return p.answer, nil
}

type recordingDialog struct {
	savePath   string
	openPath   string
	suggested  []string
	saveCalled int
}

func (d *recordingDialog) SavePath(_ context.Context, suggested string, _ Filter) (string, error) {
	d.saveCalled++
	d.suggested = append(d.suggested, suggested)
	if d.savePath == "" {
		return "", ErrCanceled
	}
	return d.savePath, nil
}

func (d *recordingDialog) OpenPath(_ context.Context, _ Filter) (string, error) {
	if d.openPath == "" {
		return "", ErrCanceled
	}
	return d.openPath, nil
}

type recordedFile struct {
	path   string
	action storage.RecentAction
	tabs   int
}

type fakeHistory struct {
	entries []recordedFile
}

func (h *fakeHistory) RecordRecentFile(_ context.Context, path string, action storage.RecentAction, tabs int) error {
	h.entries = append(h.entries, recordedFile{path: path, action: action, tabs: tabs})
	return nil
}

type fakeCheckpoints struct {
	parked []model.Document
}

func (c *fakeCheckpoints) AutoCheckpoint(_ context.Context, prefix string, doc model.Document) (*storage.CheckpointInfo, error) {
	c.parked = append(c.parked, doc)
	return &storage.CheckpointInfo{ID: "auto-" + prefix, IsAuto: true}, nil
}

var fixedNow = time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC)

func validDocument() model.Document {
	return model.Document{Tabs: []model.Tab{
		{Name: "Platform", TableData: model.Table{
			{ID: "r1", Description: "CI", Weight: 60, Score: 90, EvaluationScore: 54},
			{ID: "r2", Description: "Docs", Weight: 40, Score: 50, EvaluationScore: 20},
		}},
	}}
}

func invalidDocument() model.Document {
	return model.Document{Tabs: []model.Tab{
		{Name: "Platform", TableData: model.Table{{ID: "r1", Weight: 50}}},
	}}
}

func TestSave_WithoutPathActsAsSaveAs(t *testing.T) {
	fs := newMemFS()
	dialog := &recordingDialog{savePath: "/docs/scores"}
	history := &fakeHistory{}
	e := New(fs, dialog, AlwaysConfirm(true), WithHistory(history), WithClock(func() time.Time { return fixedNow }))

	result, err := e.Save(context.Background(), validDocument())
	require.NoError(t, err)

	assert.Equal(t, "/docs/scores.dat", result.Path)
	assert.True(t, result.Violations.Valid())
	assert.Equal(t, "/docs/scores.dat", e.CurrentPath())
	assert.Equal(t, []string{"evaluation_data.dat"}, dialog.suggested)
	assert.Equal(t, []recordedFile{{path: "/docs/scores.dat", action: storage.ActionSaved, tabs: 1}}, history.entries)

	decoded, err := codec.Decode(string(fs.files["/docs/scores.dat"]))
	require.NoError(t, err)
	assert.Equal(t, validDocument(), decoded.Document)
	assert.True(t, fixedNow.Equal(decoded.SavedAt))

	// A second save reuses the current path.
	_, err = e.Save(context.Background(), validDocument())
	require.NoError(t, err)
	assert.Equal(t, 1, dialog.saveCalled)
}

func TestSave_DialogCanceled(t *testing.T) {
	fs := newMemFS()
	e := New(fs, &recordingDialog{}, AlwaysConfirm(true))

	_, err := e.Save(context.Background(), validDocument())

	assert.ErrorIs(t, err, ErrCanceled)
	assert.Empty(t, fs.files)
	assert.Empty(t, e.CurrentPath())
}

func TestSave_ViolationsNeedConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		answer    bool
		block     bool
		wantErr   error
		wantAsked bool
		wantSaved bool
	}{
		{name: "declined", answer: false, block: true, wantErr: ErrCanceled, wantAsked: true},
		{name: "accepted", answer: true, block: true, wantAsked: true, wantSaved: true},
		{name: "not blocking", answer: false, block: false, wantSaved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newMemFS()
			prompter := &recordingPrompter{answer: tt.answer}
			cfg := DefaultConfig()
			cfg.BlockOnSave = tt.block
			e := New(fs, StaticDialog{}, prompter, WithConfig(cfg))

			result, err := e.SaveTo(context.Background(), invalidDocument(), "/x.dat")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, result.Violations.Violations, 2)
			}
			if tt.wantAsked {
				require.Len(t, prompter.messages, 1)
				assert.Contains(t, prompter.messages[0], "1. [Platform]")
				assert.True(t, strings.HasSuffix(prompter.messages[0], "Save anyway?"))
			} else {
				assert.Empty(t, prompter.messages)
			}
			_, saved := fs.files["/x.dat"]
			assert.Equal(t, tt.wantSaved, saved)
		})
	}
}

func TestSave_WriteFailureKeepsPath(t *testing.T) {
	fs := newMemFS()
	e := New(fs, StaticDialog{}, AlwaysConfirm(true), WithCurrentPath("/old.dat"))
	fs.writeErr = errors.New("disk full")

	_, err := e.SaveTo(context.Background(), validDocument(), "/new.dat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "/old.dat", e.CurrentPath())
}

func TestSaveAs_SuggestsCurrentName(t *testing.T) {
	dialog := &recordingDialog{savePath: "/b.dat"}
	e := New(newMemFS(), dialog, AlwaysConfirm(true), WithCurrentPath("/docs/a.dat"))

	_, err := e.SaveAs(context.Background(), validDocument())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.dat"}, dialog.suggested)
	assert.Equal(t, "/b.dat", e.CurrentPath())
}

func TestLoad(t *testing.T) {
	fs := newMemFS()
	blob, err := codec.Encode(validDocument(), fixedNow)
	require.NoError(t, err)
	fs.files["/in.dat"] = []byte(blob)

	history := &fakeHistory{}
	checkpoints := &fakeCheckpoints{}
	e := New(fs, &recordingDialog{openPath: "/in.dat"}, AlwaysConfirm(true),
		WithHistory(history), WithCheckpoints(checkpoints))

	previous := invalidDocument()
	result, err := e.Load(context.Background(), previous)
	require.NoError(t, err)

	assert.Equal(t, "/in.dat", result.Path)
	assert.Equal(t, codec.ShapeVersioned, result.Shape)
	assert.Equal(t, "2.0", result.Version)
	assert.Equal(t, validDocument(), result.Document)
	assert.Equal(t, "/in.dat", e.CurrentPath())
	assert.Equal(t, []model.Document{previous}, checkpoints.parked)
	assert.Equal(t, storage.ActionOpened, history.entries[0].action)
}

func TestLoad_EmptyPreviousNotCheckpointed(t *testing.T) {
	fs := newMemFS()
	blob, err := codec.Encode(validDocument(), fixedNow)
	require.NoError(t, err)
	fs.files["/in.dat"] = []byte(blob)
	checkpoints := &fakeCheckpoints{}
	e := New(fs, StaticDialog{}, AlwaysConfirm(true), WithCheckpoints(checkpoints))

	_, err = e.LoadFrom(context.Background(), "/in.dat", model.Document{Tabs: []model.Tab{{Name: "empty"}}})
	require.NoError(t, err)

	assert.Empty(t, checkpoints.parked)
}

func TestLoad_Failures(t *testing.T) {
	fs := newMemFS()
	fs.files["/bad.dat"] = []byte("definitely not base64!!")
	e := New(fs, StaticDialog{}, AlwaysConfirm(true), WithCurrentPath("/keep.dat"))

	_, err := e.LoadFrom(context.Background(), "/bad.dat", model.Document{})
	assert.ErrorIs(t, err, codec.ErrDecode)
	assert.Equal(t, "/keep.dat", e.CurrentPath())

	_, err = e.LoadFrom(context.Background(), "/missing.dat", model.Document{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = e.Load(context.Background(), model.Document{})
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestExportReport(t *testing.T) {
	fs := newMemFS()
	cfg := DefaultConfig()
	cfg.ReportTitle = "Quarterly summary"
	dialog := &recordingDialog{savePath: "/out/report"}
	e := New(fs, dialog, AlwaysConfirm(true), WithConfig(cfg), WithCurrentPath("/docs/team.dat"),
		WithClock(func() time.Time { return fixedNow }))

	result, err := e.ExportReport(context.Background(), validDocument())
	require.NoError(t, err)

	assert.Equal(t, "/out/report.html", result.Path)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, []string{"team.html"}, dialog.suggested)

	html := string(fs.files["/out/report.html"])
	assert.Contains(t, html, "Quarterly summary")
	assert.Contains(t, html, "2024. 07. 03")
	assert.Equal(t, len(html), result.Bytes)
	// Export does not change the document path.
	assert.Equal(t, "/docs/team.dat", e.CurrentPath())
}

func TestExportReport_NoData(t *testing.T) {
	fs := newMemFS()
	dialog := &recordingDialog{savePath: "/out.html"}
	e := New(fs, dialog, AlwaysConfirm(true))

	_, err := e.ExportReport(context.Background(), model.Document{Tabs: []model.Tab{{Name: "A", TableData: model.Table{}}}})

	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, dialog.saveCalled)
	assert.Empty(t, fs.files)
}

type blockingRenderer struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRenderer) Render(ctx context.Context, markup []byte) ([]byte, error) {
	close(r.started)
	select {
	case <-r.release:
		return markup, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *blockingRenderer) Extension() string { return ".pdf" }

func TestConcurrentOperationsAreRejected(t *testing.T) {
	renderer := &blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
	e := New(newMemFS(), StaticDialog{}, AlwaysConfirm(true), WithRenderer(renderer))

	errs := make(chan error, 1)
	go func() {
		_, err := e.ExportReportTo(context.Background(), validDocument(), "/r.pdf")
		errs <- err
	}()
	<-renderer.started

	_, err := e.SaveTo(context.Background(), validDocument(), "/x.dat")
	assert.ErrorIs(t, err, ErrBusy)

	close(renderer.release)
	require.NoError(t, <-errs)

	_, err = e.SaveTo(context.Background(), validDocument(), "/x.dat")
	assert.NoError(t, err)
}

func TestExportReport_RenderCanceled(t *testing.T) {
	renderer := &blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
	e := New(newMemFS(), StaticDialog{}, AlwaysConfirm(true), WithRenderer(renderer))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-renderer.started
		cancel()
	}()

	_, err := e.ExportReportTo(ctx, validDocument(), "/r.pdf")
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestValidate(t *testing.T) {
	e := New(newMemFS(), StaticDialog{}, AlwaysConfirm(true))

	assert.True(t, e.Validate(validDocument()).Valid())
	assert.False(t, e.Validate(invalidDocument()).Valid())
}

func TestOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.dat")
	fs := OSFileSystem{}
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, path, []byte("first")))
	require.NoError(t, fs.WriteFile(ctx, path, []byte("second")))

	data, err := fs.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	_, err = fs.ReadFile(ctx, filepath.Join(dir, "missing.dat"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "a.dat", WithExtension("a", ".dat"))
	assert.Equal(t, "a.DAT", WithExtension("a.DAT", ".dat"))
	assert.Equal(t, "a.txt.dat", WithExtension("a.txt", ".dat"))
	assert.Equal(t, "a", WithExtension("a", ""))
}
