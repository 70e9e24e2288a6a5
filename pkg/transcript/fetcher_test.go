package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFetchFromFile(t *testing.T) {
	content, err := fetchFromFile(writeFile(t, "call.txt", "Rep: Hi\nProspect: Hello"))
	require.NoError(t, err)
	assert.Equal(t, "Rep: Hi\nProspect: Hello", content)
}

func TestFetchFromFileErrors(t *testing.T) {
	_, err := fetchFromFile("/nonexistent/call.txt")
	assert.Error(t, err)

	_, err = fetchFromFile(writeFile(t, "empty.txt", "  \n"))
	assert.ErrorContains(t, err, "empty")
}

func TestFetchFromFileHTML(t *testing.T) {
	html := `<!DOCTYPE html><html><body><nav>Menu</nav>
<p>Rep: Thanks for <b>joining</b>.</p>
<p>Prospect: Sure.<br>Happy to.</p>
<script>track()</script></body></html>`

	content, err := fetchFromFile(writeFile(t, "call.html", html))
	require.NoError(t, err)
	assert.Equal(t, "Rep: Thanks for joining.\nProspect: Sure.\nHappy to.", content)
}

func TestFetchFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "closepro/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<ul><li>Rep: Hi</li><li><p>Lead: Hey</p></li></ul>"))
	}))
	defer server.Close()

	content, err := FetchWithContext(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Rep: Hi\nLead: Hey", content)
}

func TestFetchFromURLPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Rep: a < b"))
	}))
	defer server.Close()

	content, err := FetchWithContext(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Rep: a < b", content)
}

func TestFetchFromURL404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchWithContext(context.Background(), server.URL)
	assert.ErrorContains(t, err, "status: 404")
}

func TestFetchFromURLTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fetchFromURL(ctx, server.URL)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	content, err := Fetch(writeFile(t, "call.txt", "Rep: Test"))
	require.NoError(t, err)
	assert.Equal(t, "Rep: Test", content)
}
