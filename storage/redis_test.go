package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/c360studio/semrdf/rdfmodel"
	"github.com/c360studio/semrdf/storage"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	rdfmodel.RDFModel
	Name  string    `rdf:"foaf:name,required"`
	Age   int       `rdf:"foaf:age"`
	Knows []*person `rdf:"foaf:knows"`
}

func (person) ClassIRI() string { return rdf.FOAFPerson }

func newRedisStore(t *testing.T, opts ...storage.Option) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := storage.NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	bob := &person{Name: "Bob"}
	ann := &person{Name: "Ann", Age: 34, Knows: []*person{bob}}

	uri, err := s.Save(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, ann.URI(), uri)
	assert.True(t, strings.HasPrefix(uri.String(), "https://semrdf.dev/entity/"))
	assert.True(t, mr.Exists("semrdf:model:"+uri.String()))

	var got person
	require.NoError(t, s.Load(ctx, uri, &got))
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, 34, got.Age)
	require.Len(t, got.Knows, 1)
	assert.Equal(t, "Bob", got.Knows[0].Name)
	assert.Equal(t, bob.URI(), got.Knows[0].URI())
}

func TestRedisStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t, storage.WithPrefix("test:"))

	a := &person{Name: "A"}
	a.SetURI("http://example.org/a")
	b := &person{Name: "B"}
	b.SetURI("http://example.org/b")

	_, err := s.Save(ctx, b)
	require.NoError(t, err)
	_, err = s.Save(ctx, a)
	require.NoError(t, err)

	uris, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []rdfmodel.URIRefNode{"http://example.org/a", "http://example.org/b"}, uris)

	require.NoError(t, s.Delete(ctx, "http://example.org/a"))
	uris, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []rdfmodel.URIRefNode{"http://example.org/b"}, uris)

	assert.ErrorIs(t, s.Delete(ctx, "http://example.org/a"), storage.ErrNotFound)
	assert.ErrorIs(t, s.Load(ctx, "http://example.org/a", &person{}), storage.ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, storage.WithTTL(time.Minute))

	p := &person{Name: "Temp"}
	uri, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("semrdf:model:"+uri.String()))

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, s.Load(ctx, uri, &person{}), storage.ErrNotFound)
}

func TestRedisStore_SaveRejectsInvalidModel(t *testing.T) {
	s, mr := newRedisStore(t)
	_, err := s.Save(context.Background(), &person{})
	assert.ErrorIs(t, err, rdfmodel.ErrPropertyNotSet)
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := storage.NewMetrics(reg)
	require.NoError(t, err)
	s, _ := newRedisStore(t, storage.WithMetrics(m))

	p := &person{Name: "Ann"}
	uri, err := s.Save(ctx, p)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx, uri, &person{}))
	_ = s.Load(ctx, "http://example.org/missing", &person{})
	_, _ = s.Save(ctx, &person{})

	expected := `
# HELP semrdf_store_operations_total Model store operations by backend, operation and result
# TYPE semrdf_store_operations_total counter
semrdf_store_operations_total{backend="redis",op="load",result="not_found"} 1
semrdf_store_operations_total{backend="redis",op="load",result="ok"} 1
semrdf_store_operations_total{backend="redis",op="save",result="error"} 1
semrdf_store_operations_total{backend="redis",op="save",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "semrdf_store_operations_total"))
	series, err := testutil.GatherAndCount(reg, "semrdf_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := storage.NewMetrics(reg)
	require.NoError(t, err)
	_, err = storage.NewMetrics(reg)
	assert.Error(t, err)

	m, err := storage.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
