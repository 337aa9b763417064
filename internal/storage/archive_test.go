package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestArchive_Store(t *testing.T) {
	mp := &mockPutter{}
	var body string
	mp.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "menus" && *in.ContentType == textContentType
	})).Run(func(args mock.Arguments) {
		b, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		body = string(b)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	a := NewArchive(mp, "menus", "/uploads/", nil)
	a.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC) }

	key, err := a.Store(context.Background(), "Lunch Menu.txt", []byte("Soup 4.50"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "uploads/2024/03/09/"), key)
	assert.True(t, strings.HasSuffix(key, "-Lunch_Menu.txt"), key)
	assert.Equal(t, "Soup 4.50", body)
	mp.AssertExpectations(t)

	in := mp.Calls[0].Arguments.Get(1).(*s3.PutObjectInput)
	assert.Equal(t, key, *in.Key)
}

func TestArchive_StoreError(t *testing.T) {
	mp := &mockPutter{}
	mp.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	a := NewArchive(mp, "menus", "", nil)

	key, err := a.Store(context.Background(), "menu.txt", []byte("x"))
	require.Error(t, err)
	assert.Empty(t, key)
	assert.Contains(t, err.Error(), "access denied")
	mp.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"menu.txt":            "menu.txt",
		"../../etc/passwd":    "passwd",
		`C:\menus\dinner.txt`: "dinner.txt",
		"café menu!.txt":      "caf__menu_.txt",
		"..":                  "menu.txt",
		"":                    "menu.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}

func TestNewS3Archive_RequiresBucket(t *testing.T) {
	_, err := NewS3Archive(context.Background(), Config{}, nil)
	require.Error(t, err)
}
