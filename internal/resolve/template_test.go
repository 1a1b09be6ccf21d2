package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/VSPipe/colorbleed-config/internal/asset"
	"github.com/VSPipe/colorbleed-config/internal/uri"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) FindAsset(ctx context.Context, name string) (asset.Record, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(asset.Record), args.Error(1)
}

func (m *mockStore) PublishTemplate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

const testTemplate = "{root}/{project}/{asset}/{subset}/v{version}/{asset}_{subset}.{representation}"

func TestMasterPath(t *testing.T) {
	store := &mockStore{}
	store.On("FindAsset", mock.Anything, "charA").Return(asset.Record{Name: "charA", Silo: "assets"}, nil)

	r := &TemplateResolver{Store: store, Root: "P:/projects", Project: "demo", Template: testTemplate}
	got, err := r.ResolvePath(context.Background(), uri.Reference{Asset: "charA", Subset: "model", Ext: "usd"}, true)
	require.NoError(t, err)

	assert.Equal(t, "P:/projects/demo/charA/model/master/model.usd", got)
	assert.True(t, strings.HasSuffix(got, "/charA/model/master/model.usd"))
	store.AssertExpectations(t)
}

func TestMasterPathNormalizesBackslashes(t *testing.T) {
	store := &mockStore{}
	store.On("FindAsset", mock.Anything, "charA").Return(asset.Record{Name: "charA", Silo: "assets"}, nil)

	r := &TemplateResolver{
		Store:    store,
		Root:     `\\server\share`,
		Project:  "demo",
		Template: `{root}\{project}\{silo}\{asset}\publish\{subset}\v{version:03d}\{asset}.{representation}`,
	}
	got, err := r.MasterPath(context.Background(), uri.Reference{Asset: "charA", Subset: "rig", Ext: "usd"})
	require.NoError(t, err)

	assert.Equal(t, "//server/share/demo/assets/charA/publish/rig/master/rig.usd", got)
	assert.NotContains(t, got, `\`)
}

func TestMasterPathMissingAsset(t *testing.T) {
	store := &mockStore{}
	store.On("FindAsset", mock.Anything, "ghost").Return(asset.Record{}, fmt.Errorf("%w: %q", asset.ErrAssetNotFound, "ghost"))

	r := &TemplateResolver{Store: store, Template: testTemplate}
	_, err := r.MasterPath(context.Background(), uri.Reference{Asset: "ghost", Subset: "model", Ext: "usd"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMissingAsset))
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
	var mae *MissingAssetError
	require.True(t, errors.As(err, &mae))
	assert.Equal(t, "ghost", mae.Asset)
}

func TestMasterPathStoreFailure(t *testing.T) {
	store := &mockStore{}
	store.On("FindAsset", mock.Anything, "charA").Return(asset.Record{}, errors.New("connection refused"))

	r := &TemplateResolver{Store: store, Template: testTemplate}
	_, err := r.MasterPath(context.Background(), uri.Reference{Asset: "charA", Subset: "model", Ext: "usd"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingAsset))
}

func TestMasterPathShallowTemplate(t *testing.T) {
	store := &mockStore{}
	store.On("FindAsset", mock.Anything, "charA").Return(asset.Record{Name: "charA", Silo: "assets"}, nil)

	r := &TemplateResolver{Store: store, Template: "{asset}/{subset}.{representation}"}
	_, err := r.MasterPath(context.Background(), uri.Reference{Asset: "charA", Subset: "model", Ext: "usd"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplate))
}

func TestDraftModeSkipsStore(t *testing.T) {
	store := &mockStore{}
	r := &TemplateResolver{Store: store, Template: testTemplate}

	got, err := r.ResolvePath(context.Background(), uri.Reference{Asset: "charA", Subset: "model", Ext: "usd"}, false)
	require.NoError(t, err)
	assert.Equal(t, "charA_model.usd", got)
	store.AssertNotCalled(t, "FindAsset", mock.Anything, mock.Anything)
}
