package host

import "context"

// ContainerSummary is the subset of a container listing the UI renders.
type ContainerSummary struct {
	ID     string
	Names  []string
	Image  string
	State  string
	Status string
}

// PrimaryName returns the first reported name, or "" when none exist.
func (c ContainerSummary) PrimaryName() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0]
}

// ContainerLister lists containers known to the runtime.
type ContainerLister interface {
	ListContainers(ctx context.Context) ([]ContainerSummary, error)
}

// DirectoryPicker asks the user for a directory. An empty path with a nil
// error means the user cancelled.
type DirectoryPicker interface {
	SelectDirectory(ctx context.Context, title string) (string, error)
}

// Capabilities is the full set of backend operations the UI may invoke.
type Capabilities interface {
	ContainerLister
	DirectoryPicker
}

// Host composes independent capability providers. Missing providers report
// ErrUnavailable instead of panicking.
type Host struct {
	Lister ContainerLister
	Picker DirectoryPicker
}

// New returns a Host backed by the given providers. Either may be nil.
func New(lister ContainerLister, picker DirectoryPicker) *Host {
	return &Host{Lister: lister, Picker: picker}
}

// ListContainers implements Capabilities.
func (h *Host) ListContainers(ctx context.Context) ([]ContainerSummary, error) {
	if h == nil || h.Lister == nil {
		return nil, Wrap(OpListContainers, ErrUnavailable)
	}
	containers, err := h.Lister.ListContainers(ctx)
	if err != nil {
		return nil, Wrap(OpListContainers, err)
	}
	return containers, nil
}

// SelectDirectory implements Capabilities.
func (h *Host) SelectDirectory(ctx context.Context, title string) (string, error) {
	if h == nil || h.Picker == nil {
		return "", Wrap(OpSelectDirectory, ErrUnavailable)
	}
	dir, err := h.Picker.SelectDirectory(ctx, title)
	if err != nil {
		return "", Wrap(OpSelectDirectory, err)
	}
	return dir, nil
}
