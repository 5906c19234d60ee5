package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/person"
)

func TestCommonsURL(t *testing.T) {
	const base = "https://commons.example.org"
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"File:Ada Lovelace.jpg", base + "/wiki/Special:FilePath/Ada_Lovelace.jpg?width=200"},
		{"Portrait.png", base + "/wiki/Special:FilePath/Portrait.png?width=200"},
		{"http://commons.wikimedia.org/wiki/Special:FilePath/Ada.jpg", base + "/wiki/Special:FilePath/Ada.jpg?width=200"},
		{"https://commons.wikimedia.org/wiki/File:Ada.jpg", base + "/wiki/Special:FilePath/Ada.jpg?width=200"},
		{"https://example.net/photos/ada.jpg", "https://example.net/photos/ada.jpg"},
		{"not an image", ""},
		{"ftp://example.net/ada.jpg", ""},
	}
	for _, tt := range tests {
		if got := CommonsURL(tt.in, base, 200); got != tt.want {
			t.Errorf("CommonsURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeAssets(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolveRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if strings.HasSuffix(r.URL.Path, "Missing.jpg") {
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	repo := person.Index([]person.Person{
		{ID: "Q1", ImageValue: "File:Ada.jpg"},
		{ID: "Q2", ImageValue: "File:Missing.jpg", WallPhoto: "File:Wall.jpg"},
		{ID: "Q3", ImageValue: "File:Missing.jpg"},
	})
	r := NewResolver(repo, Config{CommonsBase: server.URL, Width: 120})
	ctx := context.Background()

	got, err := r.Resolve(ctx, "Q1")
	if err != nil || got != server.URL+"/wiki/Special:FilePath/Ada.jpg?width=120" {
		t.Errorf("Resolve(Q1) = %q, %v", got, err)
	}
	got, err = r.Resolve(ctx, "Q2")
	if err != nil || !strings.Contains(got, "Wall.jpg") {
		t.Errorf("Resolve(Q2) = %q, %v; want wall photo fallback", got, err)
	}
	if _, err := r.Resolve(ctx, "Q3"); !errors.Is(err, enrich.ErrNoImage) {
		t.Errorf("Resolve(Q3) err = %v, want ErrNoImage", err)
	}
	if _, err := r.Resolve(ctx, "unknown"); !errors.Is(err, enrich.ErrNoImage) {
		t.Errorf("Resolve(unknown) err = %v, want ErrNoImage", err)
	}
}

func TestResolveLocalFallback(t *testing.T) {
	dir := writeAssets(t, "Q1.png", "Q2.jpeg", "Q2.jpg")
	r := NewResolver(nil, Config{AssetsDir: dir, AssetsURL: "/assets/"})
	ctx := context.Background()

	if got, err := r.Resolve(ctx, "Q1"); err != nil || got != "/assets/Q1.png" {
		t.Errorf("Resolve(Q1) = %q, %v", got, err)
	}
	if got, _ := r.Resolve(ctx, "Q2"); got != "/assets/Q2.jpg" {
		t.Errorf("Resolve(Q2) = %q, want .jpg before .jpeg", got)
	}
	if _, err := r.Resolve(ctx, "../Q1"); !errors.Is(err, enrich.ErrNoImage) {
		t.Errorf("path traversal resolved: %v", err)
	}
}

func TestResolveTransientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	repo := person.Index([]person.Person{{ID: "Q1", ImageValue: "File:Ada.jpg"}})
	r := NewResolver(repo, Config{CommonsBase: server.URL})
	_, err := r.Resolve(context.Background(), "Q1")
	if err == nil || errors.Is(err, enrich.ErrNoImage) {
		t.Errorf("err = %v, want a transport error", err)
	}

	dir := writeAssets(t, "Q1.jpg")
	r = NewResolver(repo, Config{CommonsBase: server.URL, AssetsDir: dir})
	if got, err := r.Resolve(context.Background(), "Q1"); err != nil || !strings.HasSuffix(got, "Q1.jpg") {
		t.Errorf("local asset should win over a failed remote: %q, %v", got, err)
	}
}

func TestResolveSkipVerify(t *testing.T) {
	repo := person.Index([]person.Person{{ID: "Q1", ImageValue: "https://example.net/a.jpg"}})
	r := NewResolver(repo, Config{SkipVerify: true})
	if got, err := r.Resolve(context.Background(), "Q1"); err != nil || got != "https://example.net/a.jpg" {
		t.Errorf("Resolve = %q, %v", got, err)
	}
}

func TestSetPeople(t *testing.T) {
	r := NewResolver(nil, Config{SkipVerify: true})
	if _, err := r.Resolve(context.Background(), "Q1"); !errors.Is(err, enrich.ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage before snapshot", err)
	}
	r.SetPeople(person.Index([]person.Person{{ID: "Q1", ImageValue: "File:A.jpg"}}))
	if _, err := r.Resolve(context.Background(), "Q1"); err != nil {
		t.Errorf("Resolve after SetPeople: %v", err)
	}
}

func TestGallery(t *testing.T) {
	dir := writeAssets(t, "Q1.jpg", "Q1_1.png", "Q1_2.webp", "Q1_4.jpg")
	r := NewResolver(nil, Config{AssetsDir: dir, AssetsURL: "assets"})

	got, err := r.Gallery(context.Background(), "Q1")
	if err != nil {
		t.Fatal(err)
	}
	want := "assets/Q1.jpg,assets/Q1_1.png,assets/Q1_2.webp"
	if s := strings.Join(got, ","); s != want {
		t.Errorf("Gallery = %s, want %s", s, want)
	}

	empty, err := r.Gallery(context.Background(), "Q9")
	if err != nil || len(empty) != 0 {
		t.Errorf("Gallery(Q9) = %v, %v", empty, err)
	}
}
