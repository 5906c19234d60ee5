package images

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

var imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".tif", ".tiff"}

// CommonsURL turns an image value into a fetchable URL.
//
// "File:Name.jpg", bare file names and Commons page or FilePath URLs become
// <base>/wiki/Special:FilePath/<name>?width=<width>. Other http(s) URLs are
// returned unchanged. Anything else yields "".
func CommonsURL(value, base string, width int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if name, ok := commonsFileName(value); ok {
		u := strings.TrimRight(base, "/") + "/wiki/Special:FilePath/" + url.PathEscape(name)
		if width > 0 {
			u += "?width=" + strconv.Itoa(width)
		}
		return u
	}
	if u, err := url.Parse(value); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return value
	}
	return ""
}

// commonsFileName extracts the file name from a Commons reference.
func commonsFileName(value string) (string, bool) {
	for _, prefix := range []string{"File:", "file:", "Image:"} {
		if name, ok := strings.CutPrefix(value, prefix); ok {
			return normalizeFileName(name)
		}
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	if u.Scheme == "" {
		if strings.Contains(value, "/") {
			return "", false
		}
		ext := strings.ToLower(path.Ext(value))
		for _, s := range imageSuffixes {
			if ext == s {
				return normalizeFileName(value)
			}
		}
		return "", false
	}
	if !strings.HasSuffix(u.Host, "wikimedia.org") {
		return "", false
	}
	for _, marker := range []string{"/wiki/Special:FilePath/", "/wiki/File:"} {
		if _, name, ok := strings.Cut(u.Path, marker); ok {
			return normalizeFileName(name)
		}
	}
	return "", false
}

func normalizeFileName(name string) (string, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return name, name != ""
}
