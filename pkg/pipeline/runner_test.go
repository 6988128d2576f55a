package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/typegrid/typegrid/pkg/cache"
	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/render"
)

const testManifest = `name = "crm"
categories = ["strategy", "application", "technology"]

[[card_types]]
key = "capability"
name = "Business Capability"
category = "strategy"

[[card_types]]
key = "application"
name = "Application"
category = "application"

[[card_types]]
key = "server"
name = "Server"
category = "technology"

[[relations]]
key = "supports"
name = "supports"
reverse_name = "is supported by"
source = "application"
target = "capability"

[[relations]]
key = "runs-on"
name = "runs on"
source = "application"
target = "server"
`

// writeManifest drops the shared test manifest into a temp dir.
func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crm.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestRunnerExecute(t *testing.T) {
	r := quietRunner(t, nil)
	opts := Options{
		Manifest: writeManifest(t),
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
		Logger:   log.New(io.Discard),
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.TypeCount != 3 {
		t.Errorf("TypeCount = %d, want 3", result.Stats.TypeCount)
	}
	if result.Stats.RelationCount != 2 {
		t.Errorf("RelationCount = %d, want 2", result.Stats.RelationCount)
	}
	if result.Stats.PlacedNodes != 3 {
		t.Errorf("PlacedNodes = %d, want 3", result.Stats.PlacedNodes)
	}
	if result.Stats.RoutedEdges != 2 {
		t.Errorf("RoutedEdges = %d, want 2", result.Stats.RoutedEdges)
	}
	if result.ModelHash == "" {
		t.Error("ModelHash should be set")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("clean model should produce no warnings, got %v", result.Warnings)
	}

	svg := result.Artifacts[FormatSVG]
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg artifact should contain <svg")
	}
	if !strings.Contains(string(svg), "Business Capability") {
		t.Error("svg artifact should label nodes with display names")
	}

	doc, err := render.UnmarshalDocument(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact should round-trip: %v", err)
	}
	if len(doc.Geometry.Nodes) != 3 {
		t.Errorf("json geometry has %d nodes, want 3", len(doc.Geometry.Nodes))
	}
	if doc.Model == nil || doc.Model.Name != "crm" {
		t.Error("json artifact should embed the model")
	}

	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact should contain digraph")
	}
}

func TestRunnerExecuteCacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, c)
	opts := Options{
		Manifest: writeManifest(t),
		Formats:  []string{FormatSVG, FormatJSON},
		Logger:   log.New(io.Discard),
	}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.LoadHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere, got %+v", first.CacheInfo)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.LoadHit {
		t.Error("second run should hit the model cache")
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}

	// Cached geometry must match the freshly computed one.
	if len(second.Geometry.Nodes) != len(first.Geometry.Nodes) {
		t.Errorf("cached geometry has %d nodes, want %d",
			len(second.Geometry.Nodes), len(first.Geometry.Nodes))
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from fresh svg")
	}
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, c)
	opts := Options{
		Manifest: writeManifest(t),
		Refresh:  true,
		Logger:   log.New(io.Discard),
	}

	for i := 0; i < 2; i++ {
		result, err := r.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if result.CacheInfo.LoadHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
			t.Errorf("refresh run %d should not hit the cache, got %+v", i, result.CacheInfo)
		}
	}
}

func TestRunnerLoadFromStore(t *testing.T) {
	store, err := model.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := &model.Model{
		Name: "stored",
		CardTypes: []model.CardType{
			{Key: "application", Category: "application"},
		},
	}
	if err := store.Put(context.Background(), "stored", m); err != nil {
		t.Fatal(err)
	}

	r := quietRunner(t, nil)
	opts := Options{Model: "stored", Store: store, Logger: log.New(io.Discard)}

	got, hit, err := r.LoadWithCacheInfo(context.Background(), opts)
	if err != nil {
		t.Fatalf("LoadWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("store loads never report cache hits")
	}
	if got.Name != "stored" || len(got.CardTypes) != 1 {
		t.Errorf("loaded model = %+v", got)
	}
}

func TestRunnerLoadMissingManifest(t *testing.T) {
	r := quietRunner(t, nil)
	opts := Options{
		Manifest: filepath.Join(t.TempDir(), "absent.toml"),
		Logger:   log.New(io.Discard),
	}

	if _, err := r.Load(context.Background(), opts); err == nil {
		t.Error("missing manifest should fail")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := quietRunner(t, nil)
	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute without a source should fail")
	}
}

func TestRunnerNilDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("nil cache should default to a null cache")
	}
	if r.Keyer == nil {
		t.Error("nil keyer should default")
	}
	if r.Logger == nil {
		t.Error("nil logger should default")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestHashModelStable(t *testing.T) {
	m := &model.Model{Name: "crm", CardTypes: []model.CardType{{Key: "a"}}}

	h1 := HashModel(m)
	h2 := HashModel(m)
	if h1 != h2 {
		t.Errorf("hash not stable: %s vs %s", h1, h2)
	}

	m.CardTypes[0].Name = "renamed"
	if HashModel(m) == h1 {
		t.Error("renaming a type should change the hash")
	}
}

func TestComputeLayoutCategoryOverride(t *testing.T) {
	m := &model.Model{
		CardTypes: []model.CardType{
			{Key: "app", Category: "application"},
			{Key: "srv", Category: "technology"},
		},
	}

	geo := ComputeLayout(m, Options{})
	if len(geo.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(geo.Layers))
	}
	if geo.Layers[0].Category != "application" {
		t.Errorf("default order should put application first, got %s", geo.Layers[0].Category)
	}

	flipped := ComputeLayout(m, Options{Categories: []string{"technology", "application"}})
	if flipped.Layers[0].Category != "technology" {
		t.Errorf("override should put technology first, got %s", flipped.Layers[0].Category)
	}
}

func TestRenderArtifactsUnknownFormatRejected(t *testing.T) {
	m := &model.Model{CardTypes: []model.CardType{{Key: "a"}}}
	geo := ComputeLayout(m, Options{})

	_, err := RenderArtifacts(geo, m, Options{Formats: []string{"bogus"}})
	if err == nil {
		t.Error("unknown format should fail")
	}
}
