package spider_test

import (
	"testing"

	"github.com/fwojciec/spider"
	"github.com/stretchr/testify/assert"
)

func TestProject_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project spider.Project
		wantErr bool
	}{
		{"valid project", spider.Project{Name: "example", SeedURL: "https://example.com/"}, false},
		{"valid plain http seed", spider.Project{Name: "example", SeedURL: "http://localhost:8080/a"}, false},
		{"missing name", spider.Project{SeedURL: "https://example.com/"}, true},
		{"name with separator", spider.Project{Name: "a/b", SeedURL: "https://example.com/"}, true},
		{"name is parent dir", spider.Project{Name: "..", SeedURL: "https://example.com/"}, true},
		{"missing seed", spider.Project{Name: "example"}, true},
		{"relative seed", spider.Project{Name: "example", SeedURL: "/docs"}, true},
		{"non-http seed", spider.Project{Name: "example", SeedURL: "ftp://example.com/"}, true},
		{"seed without host", spider.Project{Name: "example", SeedURL: "https:///path"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.project.Validate()
			if tt.wantErr {
				assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires project ID", func(t *testing.T) {
		t.Parallel()

		run := spider.Run{Workers: 1}
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(run.Validate()))
	})

	t.Run("rejects non-positive worker counts", func(t *testing.T) {
		t.Parallel()

		run := spider.Run{ProjectID: "p", Workers: 0}
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(run.Validate()))
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, spider.Retryable(nil))
	assert.False(t, spider.Retryable(spider.Errorf(spider.EUNSUPPORTED, "image/png")))
	assert.False(t, spider.Retryable(spider.Errorf(spider.ENOTFOUND, "HTTP 404")))
	assert.False(t, spider.Retryable(spider.Errorf(spider.EINVALID, "HTTP 403")))
	assert.True(t, spider.Retryable(spider.Errorf(spider.EUNAVAILABLE, "HTTP 503")))
}

func TestFetchOutcome_OK(t *testing.T) {
	t.Parallel()

	assert.True(t, spider.FetchOutcome{Body: "<html></html>"}.OK())
	assert.False(t, spider.FetchOutcome{Err: spider.Errorf(spider.EUNAVAILABLE, "timeout")}.OK())
}
