package rrd

import (
	"context"
	"io"
	"log/slog"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// fakeRunner serves archive probes and command output from maps, so locator
// and fetch logic is testable without rrdtool or a filesystem.
type fakeRunner struct {
	mode   models.AccessMode
	files  map[string]string   // path -> fetch output
	dirs   map[string][]string // dir -> entries
	broken bool                // transport channel down
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.broken {
		return nil, toolerr.New(toolerr.TransportFailure, "channel down")
	}
	if len(args) >= 2 && args[0] == "fetch" {
		out, ok := f.files[args[1]]
		if !ok {
			return nil, &CommandError{Stderr: "opening '" + args[1] + "': No such file or directory"}
		}
		return []byte(out), nil
	}
	return nil, &CommandError{Stderr: "unexpected command"}
}

func (f *fakeRunner) Exists(ctx context.Context, p string) (bool, error) {
	if f.broken {
		return false, toolerr.New(toolerr.TransportFailure, "channel down")
	}
	if _, ok := f.files[p]; ok {
		return true, nil
	}
	_, ok := f.dirs[p]
	return ok, nil
}

func (f *fakeRunner) ListDir(ctx context.Context, p string) ([]string, error) {
	if f.broken {
		return nil, toolerr.New(toolerr.TransportFailure, "channel down")
	}
	return f.dirs[p], nil
}

func (f *fakeRunner) Mode() models.AccessMode {
	return f.mode
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func deviceRef() *models.EntityRef {
	return &models.EntityRef{
		Kind:        models.KindDevice,
		ID:          1,
		Hostname:    "router1.example.com",
		DisplayName: "router1.example.com",
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]models.Category{
		"la.rrd":           models.CategorySystem,
		"cpu.rrd":          models.CategorySystem,
		"mem.rrd":          models.CategorySystem,
		"uptime.rrd":       models.CategorySystem,
		"port-42.rrd":      models.CategoryNetwork,
		"temp_1.rrd":       models.CategorySensors,
		"sensor-volt.rrd":  models.CategorySensors,
		"poller.rrd":       models.CategoryPerformance,
		"unknownthing.rrd": models.CategoryOther,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestLocateUnknownMetric(t *testing.T) {
	svc := NewServiceWithRunners("/rrd", testLogger(), &fakeRunner{mode: models.AccessLocal})

	_, err := svc.Locate(context.Background(), deviceRef(), "bandwidth")
	require.Error(t, err)
	assert.Equal(t, toolerr.UnknownMetric, toolerr.KindOf(err))

	te := toolerr.AsError(err)
	require.NotNil(t, te)
	assert.Equal(t, MetricTokens(), te.Alternatives)
}

func TestLocateNoAccessPaths(t *testing.T) {
	svc := NewServiceWithRunners("/rrd", testLogger())

	_, err := svc.Locate(context.Background(), deviceRef(), "load")
	require.Error(t, err)
	assert.Equal(t, toolerr.ArchiveUnavailable, toolerr.KindOf(err))
}

func TestLocateCanonicalFile(t *testing.T) {
	dir := "/rrd/router1.example.com"
	runner := &fakeRunner{
		mode:  models.AccessLocal,
		files: map[string]string{path.Join(dir, "la.rrd"): ""},
		dirs:  map[string][]string{dir: {"la.rrd"}},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	desc, err := svc.Locate(context.Background(), deviceRef(), "load")
	require.NoError(t, err)
	assert.Equal(t, "la.rrd", desc.Filename)
	assert.Equal(t, models.AccessLocal, desc.AccessMode)
	assert.Equal(t, models.CategorySystem, desc.Category)
	assert.Equal(t, "load", desc.MetricName())
}

func TestLocateFallbackSearch(t *testing.T) {
	// Canonical processor-hr-1.rrd absent; the MIB-specific variant matches
	// the fallback substring.
	dir := "/rrd/router1.example.com"
	runner := &fakeRunner{
		mode:  models.AccessLocal,
		files: map[string]string{path.Join(dir, "processor-acme-2.rrd"): ""},
		dirs:  map[string][]string{dir: {"la.rrd.bak", "processor-acme-2.rrd"}},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	desc, err := svc.Locate(context.Background(), deviceRef(), "cpu")
	require.NoError(t, err)
	assert.Equal(t, "processor-acme-2.rrd", desc.Filename)
}

func TestLocateMissingArchiveListsAvailable(t *testing.T) {
	dir := "/rrd/router1.example.com"
	runner := &fakeRunner{
		mode: models.AccessLocal,
		dirs: map[string][]string{dir: {"uptime.rrd", "port-1.rrd"}},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	_, err := svc.Locate(context.Background(), deviceRef(), "cpu")
	require.Error(t, err)
	assert.Equal(t, toolerr.ArchiveUnavailable, toolerr.KindOf(err))

	te := toolerr.AsError(err)
	require.NotNil(t, te)
	assert.Equal(t, []string{"port-1.rrd", "uptime.rrd"}, te.Alternatives)
}

func TestProbePrefersWorkingPath(t *testing.T) {
	// Local has the file; the remote channel being down must not matter.
	dir := "/rrd/router1.example.com"
	local := &fakeRunner{
		mode:  models.AccessLocal,
		files: map[string]string{path.Join(dir, "la.rrd"): ""},
	}
	remote := &fakeRunner{mode: models.AccessRemote, broken: true}
	svc := NewServiceWithRunners("/rrd", testLogger(), local, remote)

	desc, err := svc.Locate(context.Background(), deviceRef(), "load")
	require.NoError(t, err)
	assert.Equal(t, models.AccessLocal, desc.AccessMode)
}

func TestProbeSurfacesTransportFailure(t *testing.T) {
	remote := &fakeRunner{mode: models.AccessRemote, broken: true}
	svc := NewServiceWithRunners("/rrd", testLogger(), remote)

	_, err := svc.Locate(context.Background(), deviceRef(), "load")
	require.Error(t, err)
	assert.Equal(t, toolerr.TransportFailure, toolerr.KindOf(err))
}

func TestLocatePort(t *testing.T) {
	dir := "/rrd/router1.example.com"
	runner := &fakeRunner{
		mode:  models.AccessLocal,
		files: map[string]string{path.Join(dir, "port-7.rrd"): ""},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	ref := &models.EntityRef{Kind: models.KindPort, ID: 7, DeviceID: 1, Hostname: "router1.example.com"}
	desc, err := svc.LocatePort(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "port-7.rrd", desc.Filename)
	assert.Equal(t, models.CategoryNetwork, desc.Category)
}

func TestLocatePortMissing(t *testing.T) {
	runner := &fakeRunner{mode: models.AccessLocal}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	ref := &models.EntityRef{Kind: models.KindPort, ID: 7, DeviceID: 1, Hostname: "router1.example.com"}
	_, err := svc.LocatePort(context.Background(), ref)
	require.Error(t, err)
	assert.Equal(t, toolerr.ArchiveUnavailable, toolerr.KindOf(err))
}

func TestEnumerateClassifies(t *testing.T) {
	dir := "/rrd/router1.example.com"
	runner := &fakeRunner{
		mode: models.AccessLocal,
		dirs: map[string][]string{dir: {"cpu.rrd", "mem.rrd", "temp_1.rrd", "unknownthing.rrd", "notes.txt"}},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	descs, err := svc.Enumerate(context.Background(), deviceRef())
	require.NoError(t, err)
	require.Len(t, descs, 4, "non-archive files are excluded")

	byName := make(map[string]models.Category)
	for _, d := range descs {
		byName[d.Filename] = d.Category
	}
	assert.Equal(t, models.CategorySystem, byName["cpu.rrd"])
	assert.Equal(t, models.CategorySystem, byName["mem.rrd"])
	assert.Equal(t, models.CategorySensors, byName["temp_1.rrd"])
	assert.Equal(t, models.CategoryOther, byName["unknownthing.rrd"])
}

func TestEnumerateMissingDirectory(t *testing.T) {
	runner := &fakeRunner{mode: models.AccessLocal}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	descs, err := svc.Enumerate(context.Background(), deviceRef())
	require.NoError(t, err)
	assert.Empty(t, descs)
}

func TestFetchParsesOutput(t *testing.T) {
	dir := "/rrd/router1.example.com"
	archive := path.Join(dir, "la.rrd")
	runner := &fakeRunner{
		mode:  models.AccessLocal,
		files: map[string]string{archive: fetchOutput},
	}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	desc := &models.ArchiveDescriptor{
		Entity:     *deviceRef(),
		Filename:   "la.rrd",
		Path:       archive,
		AccessMode: models.AccessLocal,
	}
	spec := models.PeriodSpec{Token: "1h", Window: 3600, NativeStep: 60, TargetPoints: 60}

	result, err := svc.Fetch(context.Background(), desc, spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"1min", "5min", "15min"}, result.Datasources)
	assert.Len(t, result.Samples, 3)
}

func TestFetchMissingArchive(t *testing.T) {
	runner := &fakeRunner{mode: models.AccessLocal, files: map[string]string{}}
	svc := NewServiceWithRunners("/rrd", testLogger(), runner)

	desc := &models.ArchiveDescriptor{
		Entity:     *deviceRef(),
		Filename:   "la.rrd",
		Path:       "/rrd/router1.example.com/la.rrd",
		AccessMode: models.AccessLocal,
	}
	spec := models.PeriodSpec{Token: "1h", Window: 3600, NativeStep: 60, TargetPoints: 60}

	_, err := svc.Fetch(context.Background(), desc, spec)
	require.Error(t, err)
	assert.Equal(t, toolerr.ArchiveUnavailable, toolerr.KindOf(err))
}

func TestFetchNoRunnerForMode(t *testing.T) {
	svc := NewServiceWithRunners("/rrd", testLogger(), &fakeRunner{mode: models.AccessLocal})

	desc := &models.ArchiveDescriptor{
		Entity:     *deviceRef(),
		Path:       "/rrd/router1.example.com/la.rrd",
		AccessMode: models.AccessRemote,
	}
	spec := models.PeriodSpec{Token: "1h", Window: 3600, NativeStep: 60, TargetPoints: 60}

	_, err := svc.Fetch(context.Background(), desc, spec)
	require.Error(t, err)
	assert.Equal(t, toolerr.ArchiveUnavailable, toolerr.KindOf(err))
}
