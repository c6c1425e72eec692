package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"report-sync/core/metrics"
	"report-sync/core/remote"
	"report-sync/core/storage"
	"report-sync/core/storage/mocks"
	"report-sync/feature/report/models"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// memClient is an in-memory storage.Client.
type memClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemClient() *memClient {
	return &memClient{objects: make(map[string][]byte)}
}

func (c *memClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}

func (c *memClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return nil
}

func (c *memClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	c.mu.Lock()
	c.objects[objectName] = data
	c.mu.Unlock()
	return minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (c *memClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("%s: %w", objectName, storage.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (c *memClient) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	c.mu.Lock()
	var keys []string
	for k := range c.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func (c *memClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	c.mu.Lock()
	delete(c.objects, objectName)
	c.mu.Unlock()
	return nil
}

func (c *memClient) put(key, doc string) {
	c.mu.Lock()
	c.objects[key] = []byte(doc)
	c.mu.Unlock()
}

func ptr[T any](v T) *T { return &v }

func newTestGateway(client storage.Client, opts ...Option) *Gateway {
	clock := time.UnixMilli(1_700_000_000_000)
	opts = append([]Option{
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		}),
	}, opts...)
	return New(client, "reports", zap.NewNop(), opts...)
}

func TestAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("Sign up signs in", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		_, ok := g.CurrentUserUID()
		assert.False(t, ok)

		require.NoError(t, g.SignUp(ctx, " Ana@Example.com ", "secret1"))
		uid, ok := g.CurrentUserUID()
		assert.True(t, ok)
		assert.NotEmpty(t, uid)
		email, _ := g.CurrentUserEmail()
		assert.Equal(t, "ana@example.com", email)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		require.NoError(t, g.SignUp(ctx, "ana@example.com", "secret1"))
		assert.ErrorIs(t, g.SignUp(ctx, "ANA@example.com", "other12"), remote.ErrEmailTaken)
	})

	t.Run("Weak password", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		err := g.SignUp(ctx, "ana@example.com", "123")
		var f *remote.Failure
		assert.ErrorAs(t, err, &f)
	})

	t.Run("Sign in, out and password change", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		require.NoError(t, g.SignUp(ctx, "ana@example.com", "secret1"))
		uid, _ := g.CurrentUserUID()
		require.NoError(t, g.SignOut(ctx))
		_, ok := g.CurrentUserUID()
		assert.False(t, ok)

		assert.ErrorIs(t, g.SignIn(ctx, "ana@example.com", "wrong!!"), remote.ErrInvalidCredentials)
		assert.ErrorIs(t, g.SignIn(ctx, "bob@example.com", "secret1"), remote.ErrInvalidCredentials)
		assert.ErrorIs(t, g.UpdatePassword(ctx, "newpass1"), remote.ErrNotSignedIn)

		require.NoError(t, g.SignIn(ctx, "ana@example.com", "secret1"))
		again, _ := g.CurrentUserUID()
		assert.Equal(t, uid, again)

		require.NoError(t, g.UpdatePassword(ctx, "newpass1"))
		require.NoError(t, g.SignOut(ctx))
		assert.ErrorIs(t, g.SignIn(ctx, "ana@example.com", "secret1"), remote.ErrInvalidCredentials)
		assert.NoError(t, g.SignIn(ctx, "ana@example.com", "newpass1"))
	})

	t.Run("Profile document", func(t *testing.T) {
		c := newMemClient()
		g := newTestGateway(c)
		require.NoError(t, g.SaveUserProfile(ctx, "u1", "Ana@example.com"))
		assert.JSONEq(t, `{"uid":"u1","email":"ana@example.com"}`, string(c.objects["users/u1.json"]))
	})
}

func TestReports(t *testing.T) {
	ctx := context.Background()

	t.Run("Save requires a user", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		_, err := g.SaveReport(ctx, models.NewReport{Description: "d"})
		assert.ErrorIs(t, err, remote.ErrNotSignedIn)
	})

	t.Run("Save assigns id and time and lists newest first", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		require.NoError(t, g.SignUp(ctx, "ana@example.com", "secret1"))
		uid, _ := g.CurrentUserUID()

		first, err := g.SaveReport(ctx, models.NewReport{Description: "wallet", Location: ptr("park")})
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, uid, first.UserID)
		assert.NotZero(t, first.CreatedAt)

		second, err := g.SaveReport(ctx, models.NewReport{UserID: "other", Description: "keys"})
		require.NoError(t, err)
		assert.Greater(t, second.CreatedAt, first.CreatedAt)

		all, err := g.GetAllReports(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.True(t, models.Equal(first, all[1]))

		mine, err := g.GetReportsForUser(ctx, uid)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, first.ID, mine[0].ID)
	})

	t.Run("Update applies patch and empty patch is a no-op", func(t *testing.T) {
		c := newMemClient()
		g := newTestGateway(c)
		r, err := g.SaveReport(ctx, models.NewReport{UserID: "u1", Description: "old", Lat: ptr(1.0), Lng: ptr(2.0)})
		require.NoError(t, err)

		require.NoError(t, g.UpdateReport(ctx, r.ID, models.ReportPatch{Description: ptr("new"), ClearCoordinates: true}))
		all, err := g.GetAllReports(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "new", all[0].Description)
		assert.Nil(t, all[0].Lat)
		assert.Equal(t, r.CreatedAt, all[0].CreatedAt)

		assert.NoError(t, g.UpdateReport(ctx, "missing", models.ReportPatch{}))
		assert.ErrorIs(t, g.UpdateReport(ctx, "missing", models.ReportPatch{Name: ptr("x")}), remote.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		r, err := g.SaveReport(ctx, models.NewReport{UserID: "u1"})
		require.NoError(t, err)

		require.NoError(t, g.DeleteReport(ctx, r.ID))
		require.NoError(t, g.DeleteReport(ctx, r.ID))
		all, err := g.GetAllReports(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("Lenient documents", func(t *testing.T) {
		c := newMemClient()
		g := newTestGateway(c)
		c.put("reports/legacy.json", `{"userId":"u1","description":"bag","isLost":1,"lat":"12.5","lng":null,"createdAt":"1600000000000"}`)
		c.put("reports/broken.json", `not json`)
		c.put("reports/readme.txt", `ignored`)

		all, err := g.GetAllReports(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		r := all[0]
		assert.Equal(t, "legacy", r.ID)
		assert.True(t, r.IsLost)
		require.NotNil(t, r.Lat)
		assert.Equal(t, 12.5, *r.Lat)
		assert.Nil(t, r.Lng)
		assert.Nil(t, r.Location)
		assert.Equal(t, int64(1600000000000), r.CreatedAt)
	})
}

func TestFailures(t *testing.T) {
	t.Run("Cancelled context", func(t *testing.T) {
		g := newTestGateway(newMemClient())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.GetAllReports(ctx)
		assert.ErrorIs(t, err, remote.ErrCancelled)
		_, err = g.SaveReport(ctx, models.NewReport{UserID: "u1"})
		assert.ErrorIs(t, err, remote.ErrCancelled)
		assert.ErrorIs(t, g.DeleteReport(ctx, "x"), remote.ErrCancelled)
	})

	t.Run("Storage errors become remote failures", func(t *testing.T) {
		ctx := context.Background()
		m := new(mocks.Client)
		reg := prometheus.NewRegistry()
		met := metrics.NewMetrics(reg)
		g := newTestGateway(m, WithMetrics(met))

		m.On("PutObject", ctx, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("503 slow down"))
		m.On("RemoveObject", ctx, "reports", "reports/r1.json", minio.RemoveObjectOptions{}).
			Return(errors.New("denied"))

		_, err := g.SaveReport(ctx, models.NewReport{UserID: "u1"})
		var f *remote.Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, "save_report", f.Op)

		err = g.DeleteReport(ctx, "r1")
		require.ErrorAs(t, err, &f)
		assert.Equal(t, "delete_report", f.Op)

		assert.Equal(t, 1.0, testutil.ToFloat64(met.GatewayCalls.WithLabelValues("save_report", metrics.OutcomeError)))
		m.AssertExpectations(t)
	})

	t.Run("List error", func(t *testing.T) {
		ctx := context.Background()
		m := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("listing failed")}
		close(ch)
		m.On("ListObjects", ctx, "reports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := newTestGateway(m).GetAllReports(ctx)
		var f *remote.Failure
		assert.ErrorAs(t, err, &f)
	})
}
