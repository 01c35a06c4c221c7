package dto

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr bool
	}{
		{"ok", CreateTaskRequest{Title: "write docs"}, false},
		{"blank title", CreateTaskRequest{Title: "   "}, true},
		{"title too long", CreateTaskRequest{Title: strings.Repeat("a", 201)}, true},
		{"description too long", CreateTaskRequest{Title: "x", Description: strPtr(strings.Repeat("d", 1001))}, true},
		{"description at limit", CreateTaskRequest{Title: "x", Description: strPtr(strings.Repeat("d", 1000))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	req := UpdateTaskRequest{}
	assert.NoError(t, req.Validate())

	req = UpdateTaskRequest{Title: strPtr(" ")}
	req.Normalize()
	assert.Error(t, req.Validate())

	done := true
	req = UpdateTaskRequest{Title: strPtr(" new "), Completed: &done}
	req.Normalize()
	require.NoError(t, req.Validate())
	patch := req.Patch()
	assert.Equal(t, "new", *patch.Title)
	assert.Nil(t, patch.Description)
	assert.True(t, *patch.Completed)
}

func TestUserRegisterRequest_Validate(t *testing.T) {
	assert.NoError(t, UserRegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password1"}.Validate())
	assert.Error(t, UserRegisterRequest{Name: "Ad", Email: "ada@example.com", Password: "password1"}.Validate())
	assert.Error(t, UserRegisterRequest{Name: "Ada", Email: "not-an-email", Password: "password1"}.Validate())
	assert.Error(t, UserRegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "short"}.Validate())
	assert.Error(t, UserLoginRequest{Email: "ada@example.com"}.Validate())
}

func TestUserRegisterRequest_PasswordByteLimit(t *testing.T) {
	valid := UserRegisterRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("p", 72)}
	assert.NoError(t, valid.Validate())

	tooLong := valid
	tooLong.Password = strings.Repeat("p", 73)
	assert.ErrorContains(t, tooLong.Validate(), "72 bytes")

	// 40 runes but 80 bytes.
	multiByte := valid
	multiByte.Password = strings.Repeat("é", 40)
	assert.ErrorContains(t, multiByte.Validate(), "72 bytes")
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination("", "")
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 1, Limit: 20}, p)
	assert.Zero(t, p.Offset())

	p, err = ParsePagination("3", "500")
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxLimit), p.Limit)
	assert.Equal(t, uint64(200), p.Offset())

	for _, bad := range [][2]string{{"0", ""}, {"-1", ""}, {"x", ""}, {"", "0"}, {"", "abc"}} {
		_, err := ParsePagination(bad[0], bad[1])
		assert.Error(t, err, "page=%q limit=%q", bad[0], bad[1])
	}

	last := uint64(math.MaxInt64/20) + 1
	p, err = ParsePagination(strconv.FormatUint(last, 10), "")
	require.NoError(t, err)
	assert.LessOrEqual(t, p.Offset(), uint64(math.MaxInt64))

	_, err = ParsePagination(strconv.FormatUint(last+1, 10), "")
	assert.Error(t, err)
	_, err = ParsePagination("18446744073709551615", "100")
	assert.Error(t, err)

	huge := Pagination{Page: math.MaxUint64, Limit: 100}
	assert.Equal(t, uint64(math.MaxUint64), huge.Offset())
}
