package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseFrom(query string) *PageParams {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"默认值", "", 1, 20},
		{"正常参数", "page=3&page_size=50", 3, 50},
		{"非法页码回退", "page=abc&page_size=10", 1, 10},
		{"负数回退", "page=-1&page_size=-5", 1, 20},
		{"超出上限截断", "page=2&page_size=1000", 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseFrom(tt.query)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 20, 45)

	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	last := NewPageInfo(3, 20, 45)
	assert.False(t, last.HasNext)

	empty := NewPageInfo(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestOffsetAndLimit(t *testing.T) {
	p := &PageParams{Page: 3, PageSize: 25}
	assert.Equal(t, 50, p.GetOffset())
	assert.Equal(t, 25, p.GetLimit())
}
