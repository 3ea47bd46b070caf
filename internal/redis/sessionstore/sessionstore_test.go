package sessionstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	s := New(rdb, time.Hour)
	s.newToken = func() string { return "tok" }
	return s, mock
}

func TestCreate(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectSet("sess:tok", "42", time.Hour).SetVal("OK")

	token, err := s.Create(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RedisError(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectSet("sess:tok", "42", time.Hour).SetErr(errors.New("down"))

	_, err := s.Create(context.Background(), 42)
	require.ErrorContains(t, err, "down")
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m redismock.ClientMock)
		token   string
		want    int64
		wantErr error
	}{
		{
			name:  "hit",
			token: "tok",
			setup: func(m redismock.ClientMock) { m.ExpectGetEx("sess:tok", time.Hour).SetVal("42") },
			want:  42,
		},
		{
			name:    "expired",
			token:   "tok",
			setup:   func(m redismock.ClientMock) { m.ExpectGetEx("sess:tok", time.Hour).RedisNil() },
			wantErr: ErrNoSession,
		},
		{
			name:    "corrupt",
			token:   "tok",
			setup:   func(m redismock.ClientMock) { m.ExpectGetEx("sess:tok", time.Hour).SetVal("abc") },
			wantErr: ErrNoSession,
		},
		{
			name:    "empty_token",
			setup:   func(redismock.ClientMock) {},
			wantErr: ErrNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			tt.setup(mock)

			got, err := s.Lookup(context.Background(), tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDelete(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectDel("sess:tok").SetVal(1)

	require.NoError(t, s.Delete(context.Background(), "tok"))
	require.NoError(t, s.Delete(context.Background(), ""))
	require.NoError(t, mock.ExpectationsWereMet())
}
