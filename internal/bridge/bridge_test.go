package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/lethe-anon/lethe-ui/internal/logging"
	"github.com/lethe-anon/lethe-ui/internal/page"
)

type fakeCaps struct {
	containers []host.ContainerSummary
	listErr    error
	dir        string
	dirErr     error
	titles     []string
}

func (f *fakeCaps) ListContainers(context.Context) ([]host.ContainerSummary, error) {
	return f.containers, f.listErr
}

func (f *fakeCaps) SelectDirectory(_ context.Context, title string) (string, error) {
	f.titles = append(f.titles, title)
	return f.dir, f.dirErr
}

// recordingTarget wraps a document and counts every mutation.
type recordingTarget struct {
	*page.Document
	mutations int
}

func (r *recordingTarget) SetText(id, text string) error {
	r.mutations++
	return r.Document.SetText(id, text)
}

func (r *recordingTarget) AppendRow(id, text string) error {
	r.mutations++
	return r.Document.AppendRow(id, text)
}

func (r *recordingTarget) ClearRows(id string) error {
	r.mutations++
	return r.Document.ClearRows(id)
}

func (r *recordingTarget) WriteValue(id, value string) error {
	r.mutations++
	return r.Document.WriteValue(id, value)
}

func newTestBridge(t *testing.T, caps host.Capabilities) (*Bridge, *recordingTarget, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lethe-ui.log")
	logging.Configure(path)
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		logging.Configure("")
	})
	target := &recordingTarget{Document: page.New(4, 8)}
	b := New(context.Background(), caps, target)
	seq := 0
	b.newID = func() string {
		seq++
		return fmt.Sprintf("inv-%d", seq)
	}
	return b, target, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func run(t *testing.T, b *Bridge, cmd tea.Cmd) {
	t.Helper()
	msg := cmd()
	if !b.Apply(msg) {
		t.Fatalf("expected bridge to own %T", msg)
	}
}

func summaries(n int) []host.ContainerSummary {
	out := make([]host.ContainerSummary, n)
	for i := range out {
		out[i] = host.ContainerSummary{
			Names: []string{fmt.Sprintf("/run-%d", i), "/alias"},
			Image: fmt.Sprintf("lethe:%d", i),
		}
	}
	return out
}

func TestRefreshRendersRowsInOrder(t *testing.T) {
	caps := &fakeCaps{containers: summaries(3)}
	b, target, path := newTestBridge(t, caps)
	cmd := b.RefreshContainers()
	run(t, b, cmd)

	want := []string{"/run-0 (lethe:0)", "/run-1 (lethe:1)", "/run-2 (lethe:2)"}
	if got := target.Rows(page.IDContainers); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
	if got := target.Text(page.IDResult); got != "3" {
		t.Fatalf("expected result 3, got %q", got)
	}
	out := readLog(t, path)
	for _, event := range []string{"bridge.invoke", "bridge.result", "bridge.finished"} {
		if !strings.Contains(out, event) {
			t.Fatalf("expected %s in log, got:\n%s", event, out)
		}
	}
}

func TestRefreshReplacesPreviousRows(t *testing.T) {
	caps := &fakeCaps{containers: summaries(3)}
	b, target, _ := newTestBridge(t, caps)
	cmd := b.RefreshContainers()
	run(t, b, cmd)

	caps.containers = summaries(1)
	cmd = b.RefreshContainers()
	run(t, b, cmd)

	if got := target.Rows(page.IDContainers); len(got) != 1 || got[0] != "/run-0 (lethe:0)" {
		t.Fatalf("expected stale rows to be replaced, got %v", got)
	}
	if got := target.Text(page.IDResult); got != "1" {
		t.Fatalf("expected result 1, got %q", got)
	}
}

func TestRefreshEmptyResult(t *testing.T) {
	caps := &fakeCaps{containers: summaries(2)}
	b, target, _ := newTestBridge(t, caps)
	cmd := b.RefreshContainers()
	run(t, b, cmd)

	caps.containers = nil
	cmd = b.RefreshContainers()
	run(t, b, cmd)
	if got := target.Rows(page.IDContainers); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if got := target.Text(page.IDResult); got != "0" {
		t.Fatalf("expected result 0, got %q", got)
	}
}

func TestRowTextUsesPrimaryName(t *testing.T) {
	got := RowText(host.ContainerSummary{Names: []string{"/lethe", "/other"}, Image: "ghcr.io/x/lethe:1.2"})
	if got != "/lethe (ghcr.io/x/lethe:1.2)" {
		t.Fatalf("unexpected row text %q", got)
	}
	if got := RowText(host.ContainerSummary{Image: "img"}); got != " (img)" {
		t.Fatalf("unexpected row text for nameless container %q", got)
	}
}

func TestRefreshFailureLeavesPageUntouched(t *testing.T) {
	caps := &fakeCaps{listErr: errors.New("daemon unreachable")}
	b, target, path := newTestBridge(t, caps)
	target.Document.AppendRow(page.IDContainers, "existing")
	target.Document.SetText(page.IDResult, "1")

	cmd := b.RefreshContainers()
	run(t, b, cmd)

	if target.mutations != 0 {
		t.Fatalf("expected no page mutation, got %d", target.mutations)
	}
	if got := target.Rows(page.IDContainers); len(got) != 1 || got[0] != "existing" {
		t.Fatalf("expected existing rows to survive, got %v", got)
	}
	out := readLog(t, path)
	if !strings.Contains(out, "daemon unreachable") {
		t.Fatalf("expected failure to be logged, got:\n%s", out)
	}
	if !strings.Contains(out, "bridge.error") || !strings.Contains(out, "bridge.finished") {
		t.Fatalf("expected error and completion trace, got:\n%s", out)
	}
}

func TestRefreshFailureIsBackendError(t *testing.T) {
	b, _, _ := newTestBridge(t, &fakeCaps{listErr: errors.New("boom")})
	msg := b.RefreshContainers()().(ContainersMsg)
	if !host.IsBackendError(msg.Err) {
		t.Fatalf("expected BackendError, got %T", msg.Err)
	}
}

func TestRefreshWithoutCapabilities(t *testing.T) {
	b, target, _ := newTestBridge(t, nil)
	msg := b.RefreshContainers()().(ContainersMsg)
	if !errors.Is(msg.Err, host.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", msg.Err)
	}
	b.Apply(msg)
	if target.mutations != 0 {
		t.Fatalf("expected no mutation, got %d", target.mutations)
	}
}

func TestRefreshReadsNameButDoesNotUseIt(t *testing.T) {
	caps := &fakeCaps{containers: summaries(2)}
	b, target, path := newTestBridge(t, caps)
	target.Document.WriteValue(page.IDName, "run-1")
	cmd := b.RefreshContainers()
	run(t, b, cmd)
	if got := target.Rows(page.IDContainers); len(got) != 2 {
		t.Fatalf("name input must not filter the listing, got %v", got)
	}
	if !strings.Contains(readLog(t, path), `"name":"run-1"`) {
		t.Fatalf("expected name to be traced")
	}
}

func TestSelectFolders(t *testing.T) {
	caps := &fakeCaps{dir: "/data/dicom"}
	b, target, _ := newTestBridge(t, caps)

	cmd := b.SelectInputFolder()
	run(t, b, cmd)
	if v, _ := target.ReadValue(page.IDInputFolder); v != "/data/dicom" {
		t.Fatalf("expected input folder to be set, got %q", v)
	}
	if v, _ := target.ReadValue(page.IDOutputFolder); v != "" {
		t.Fatalf("output folder must stay empty, got %q", v)
	}

	caps.dir = "/data/out"
	cmd = b.SelectOutputFolder()
	run(t, b, cmd)
	if v, _ := target.ReadValue(page.IDOutputFolder); v != "/data/out" {
		t.Fatalf("expected output folder to be set, got %q", v)
	}
	if v, _ := target.ReadValue(page.IDInputFolder); v != "/data/dicom" {
		t.Fatalf("input folder must be unchanged, got %q", v)
	}
	if len(caps.titles) != 2 || caps.titles[0] != "Select input folder" || caps.titles[1] != "Select output folder" {
		t.Fatalf("unexpected dialog titles %v", caps.titles)
	}
}

func TestSelectFolderCancelledLeavesValue(t *testing.T) {
	caps := &fakeCaps{dir: ""}
	b, target, path := newTestBridge(t, caps)
	target.Document.WriteValue(page.IDInputFolder, "/previous")

	cmd := b.SelectInputFolder()
	run(t, b, cmd)
	if v, _ := target.ReadValue(page.IDInputFolder); v != "/previous" {
		t.Fatalf("expected value to be kept on cancel, got %q", v)
	}
	if target.mutations != 0 {
		t.Fatalf("expected no mutation, got %d", target.mutations)
	}
	out := readLog(t, path)
	if !strings.Contains(out, "bridge.cancelled") || !strings.Contains(out, "bridge.finished") {
		t.Fatalf("expected cancellation and completion trace, got:\n%s", out)
	}
}

func TestSelectFolderFailure(t *testing.T) {
	caps := &fakeCaps{dir: "/ignored", dirErr: errors.New("no display")}
	b, target, path := newTestBridge(t, caps)
	cmd := b.SelectOutputFolder()
	msg := cmd()
	if dm, ok := msg.(DirectoryMsg); !ok || !host.IsBackendError(dm.Err) {
		t.Fatalf("expected DirectoryMsg with BackendError, got %#v", msg)
	}
	b.Apply(msg)
	if target.mutations != 0 {
		t.Fatalf("expected no mutation, got %d", target.mutations)
	}
	if v, _ := target.ReadValue(page.IDOutputFolder); v != "" {
		t.Fatalf("expected output folder untouched, got %q", v)
	}
	if !strings.Contains(readLog(t, path), "no display") {
		t.Fatalf("expected failure to be logged")
	}
}

func TestUpdateThreadsLabelReflectsLatestValue(t *testing.T) {
	b, target, _ := newTestBridge(t, &fakeCaps{})
	for _, value := range []string{"4", "2", "7"} {
		if err := target.Document.WriteValue(page.IDThreadsInput, value); err != nil {
			t.Fatalf("write: %v", err)
		}
		b.UpdateThreadsLabel()
		if got := target.Text(page.IDThreadsLabel); got != value {
			t.Fatalf("expected label %q, got %q", value, got)
		}
	}
}

func TestUpdateThreadsLabelMissingElement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lethe-ui.log")
	logging.Configure(path)
	t.Cleanup(func() { logging.Configure("") })
	doc := page.NewDocument()
	doc.AddText(page.IDThreadsLabel, "1")
	b := New(context.Background(), &fakeCaps{}, doc)
	b.UpdateThreadsLabel()
	if doc.Text(page.IDThreadsLabel) != "1" {
		t.Fatalf("label must not change without an input")
	}
	if !strings.Contains(readLog(t, path), page.IDThreadsInput) {
		t.Fatalf("expected missing element to be logged")
	}
}

func TestObserveAppliesLikeRefresh(t *testing.T) {
	b, target, _ := newTestBridge(t, &fakeCaps{})
	target.Document.AppendRow(page.IDContainers, "stale")
	msg := b.Observe(summaries(2), nil)
	if msg.Op != OpWatch {
		t.Fatalf("expected watch op, got %s", msg.Op)
	}
	b.Apply(msg)
	if got := target.Rows(page.IDContainers); len(got) != 2 || got[0] != "/run-0 (lethe:0)" {
		t.Fatalf("unexpected rows %v", got)
	}

	failed := b.Observe(nil, errors.New("poll failed"))
	if !host.IsBackendError(failed.Err) {
		t.Fatalf("expected BackendError from observed failure")
	}
	before := target.mutations
	b.Apply(failed)
	if target.mutations != before {
		t.Fatalf("observed failure must not mutate the page")
	}
}

func TestInterleavedCompletionsApplyInArrivalOrder(t *testing.T) {
	caps := &fakeCaps{containers: summaries(3)}
	b, target, _ := newTestBridge(t, caps)
	first := b.RefreshContainers()
	firstMsg := first()
	caps.containers = summaries(1)
	second := b.RefreshContainers()
	secondMsg := second()

	b.Apply(secondMsg)
	b.Apply(firstMsg)
	if got := target.Text(page.IDResult); got != "3" {
		t.Fatalf("last applied completion wins, got %q", got)
	}
	if got := target.Rows(page.IDContainers); len(got) != 3 {
		t.Fatalf("expected rows from last applied completion, got %v", got)
	}
}

func TestApplyIgnoresForeignMessages(t *testing.T) {
	b, _, _ := newTestBridge(t, &fakeCaps{})
	if b.Apply("not ours") {
		t.Fatalf("expected foreign message to be ignored")
	}
	var nilMsg *ContainersMsg
	if b.Apply(nilMsg) {
		t.Fatalf("expected nil pointer message to be ignored")
	}
}

func TestCompletionMarkerLoggedWithoutTrace(t *testing.T) {
	caps := &fakeCaps{containers: summaries(2), dir: "/data/dicom"}
	b, _, path := newTestBridge(t, caps)
	logging.SetTraceEnabled(false)

	run(t, b, b.RefreshContainers())
	run(t, b, b.SelectInputFolder())
	caps.dir = ""
	run(t, b, b.SelectOutputFolder())
	caps.listErr = errors.New("daemon unreachable")
	run(t, b, b.RefreshContainers())

	out := readLog(t, path)
	for _, want := range []string{
		"refresh-containers [inv-1] finished: ok",
		"select-input-folder [inv-2] finished: ok",
		"select-output-folder [inv-3] finished: cancelled",
		"refresh-containers [inv-4] finished: failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "bridge.finished") {
		t.Fatalf("trace entries must stay off when tracing is disabled, got:\n%s", out)
	}
}

func TestRefreshWithMissingCountLeavesListUntouched(t *testing.T) {
	b, _, path := newTestBridge(t, &fakeCaps{containers: summaries(2)})
	doc := page.NewDocument()
	doc.AddList(page.IDContainers)
	doc.AppendRow(page.IDContainers, "existing")
	target := &recordingTarget{Document: doc}
	b.target = target

	run(t, b, b.RefreshContainers())

	if target.mutations != 0 {
		t.Fatalf("expected no mutation, got %d", target.mutations)
	}
	if got := doc.Rows(page.IDContainers); len(got) != 1 || got[0] != "existing" {
		t.Fatalf("expected existing rows to survive, got %v", got)
	}
	if out := readLog(t, path); !strings.Contains(out, page.ErrNoElement.Error()) {
		t.Fatalf("expected missing element to be logged, got:\n%s", out)
	}
}

func TestRefreshWithMiskindedListLeavesPageUntouched(t *testing.T) {
	b, _, _ := newTestBridge(t, &fakeCaps{containers: summaries(1)})
	doc := page.NewDocument()
	doc.AddText(page.IDContainers, "not a list")
	doc.AddText(page.IDResult, "7")
	target := &recordingTarget{Document: doc}
	b.target = target

	run(t, b, b.RefreshContainers())

	if target.mutations != 0 {
		t.Fatalf("expected no mutation, got %d", target.mutations)
	}
	if got := doc.Text(page.IDResult); got != "7" {
		t.Fatalf("expected stale count to survive, got %q", got)
	}
}
