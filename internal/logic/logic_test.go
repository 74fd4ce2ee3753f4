package logic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rawen554/geofeed/internal/cache"
	"github.com/rawen554/geofeed/internal/config"
	"github.com/rawen554/geofeed/internal/logic/mocks"
	"github.com/rawen554/geofeed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testConfig = &config.ServerConfig{
	RunAddr: ":8080",
	BaseURL: "http://localhost:8080",
}

const polygonJSON = `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`

func newTestLogic(t *testing.T, source Source) *CoreLogic {
	t.Helper()
	return NewCoreLogic(testConfig, source, cache.NewURLCache(time.Minute), zap.L().Sugar())
}

func TestBuildCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := []models.Record{
		{
			ID: "rec1",
			Fields: map[string]any{
				"Polygon": polygonJSON,
				"Name":    "Madison Network",
				"Leaders": []any{
					map[string]any{"name": "A"},
					map[string]any{"name": "B"},
				},
				"Photos": []any{
					map[string]any{"url": "https://dl.example.com/p0.png"},
					map[string]any{"url": "https://dl.example.com/p1.png"},
				},
				"Contact Email": "a@example.com",
				"Status":        "Active",
			},
		},
		{
			// no polygon, must be dropped
			ID: "rec2",
			Fields: map[string]any{
				"Name": "No Geometry",
			},
		},
	}

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().ListRecords(gomock.Any()).Return(records, nil)

	collection, err := newTestLogic(t, source).BuildCollection(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", collection.Type)
	require.Len(t, collection.Features, 1)

	props := collection.Features[0].Properties
	assert.Equal(t, "rec1", props["id"])
	assert.Equal(t, "Madison Network", props["name"])
	assert.Equal(t, "A, B", props["leaders"])
	assert.Equal(t, "a@example.com", props["contact_email"])
	assert.Equal(t, "Active", props["status"])

	assert.Equal(t, 2, props["photo_count"])
	assert.Equal(t, "http://localhost:8080/img/rec1/0", props["photo1"])
	assert.Equal(t, "http://localhost:8080/img/rec1/1", props["photo2"])
	for i := 3; i <= 6; i++ {
		assert.Equal(t, "", props[fmt.Sprintf("photo%d", i)])
	}

	assert.Equal(t, 0, props["image_count"])
	assert.NotNil(t, collection.Features[0].Geometry)
}

func TestBuildCollection_GeometryRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := []models.Record{
		{ID: "bad", Fields: map[string]any{"Polygon": "not json"}},
		{ID: "good", Fields: map[string]any{"Polygon": polygonJSON}},
	}

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().ListRecords(gomock.Any()).Return(records, nil)

	collection, err := newTestLogic(t, source).BuildCollection(context.Background())
	require.NoError(t, err)

	require.Len(t, collection.Features, 1)
	assert.Equal(t, "good", collection.Features[0].Properties["id"])
}

func TestBuildCollection_PhotoTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	urls := make([]any, 0, 8)
	for i := 0; i < 8; i++ {
		urls = append(urls, fmt.Sprintf("https://dl.example.com/%d.png", i))
	}

	records := []models.Record{
		{
			ID: "rec1",
			Fields: map[string]any{
				"Polygon": polygonJSON,
				// plain URL strings select direct mode, no proxying
				"Photos": urls,
			},
		},
	}

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().ListRecords(gomock.Any()).Return(records, nil)

	collection, err := newTestLogic(t, source).BuildCollection(context.Background())
	require.NoError(t, err)
	require.Len(t, collection.Features, 1)

	props := collection.Features[0].Properties
	assert.Equal(t, 6, props["photo_count"])
	for i := 1; i <= 6; i++ {
		assert.Equal(t, fmt.Sprintf("https://dl.example.com/%d.png", i-1), props[fmt.Sprintf("photo%d", i)])
	}
}

func TestBuildCollection_ProxyTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	attachments := make([]any, 0, 8)
	for i := 0; i < 8; i++ {
		attachments = append(attachments, map[string]any{
			"url": fmt.Sprintf("https://dl.example.com/%d.png", i),
		})
	}

	records := []models.Record{
		{
			ID: "rec1",
			Fields: map[string]any{
				"Polygon": polygonJSON,
				"Images":  attachments,
			},
		},
	}

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().ListRecords(gomock.Any()).Return(records, nil)

	collection, err := newTestLogic(t, source).BuildCollection(context.Background())
	require.NoError(t, err)
	require.Len(t, collection.Features, 1)

	props := collection.Features[0].Properties
	assert.Equal(t, 6, props["image_count"])
	assert.Equal(t, "http://localhost:8080/image/rec1/0", props["image1"])
	assert.Equal(t, "http://localhost:8080/image/rec1/5", props["image6"])
}

func TestBuildCollection_UpstreamFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().ListRecords(gomock.Any()).Return(nil, errors.New("status 502"))

	_, err := newTestLogic(t, source).BuildCollection(context.Background())
	assert.Error(t, err)
}

func TestResolveImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	record := &models.Record{
		ID: "rec1",
		Fields: map[string]any{
			"Photos": []any{
				map[string]any{
					"url": "https://dl.example.com/orig.png",
					"thumbnails": map[string]any{
						"large": map[string]any{"url": "https://dl.example.com//large.png"},
					},
				},
			},
		},
	}

	source := mocks.NewMockSource(ctrl)
	// a single upstream fetch: the second resolve must hit the cache
	source.EXPECT().GetRecord(gomock.Any(), "rec1").Return(record, nil).Times(1)

	cl := newTestLogic(t, source)

	target, err := cl.ResolveImage(context.Background(), KindPhoto, "rec1", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example.com/large.png", target)

	cached, err := cl.ResolveImage(context.Background(), KindPhoto, "rec1", 0)
	require.NoError(t, err)
	assert.Equal(t, target, cached)
}

func TestResolveImage_NegativeIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no upstream fetch expected
	source := mocks.NewMockSource(ctrl)

	_, err := newTestLogic(t, source).ResolveImage(context.Background(), KindPhoto, "rec1", -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveImage_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	record := &models.Record{
		ID: "rec1",
		Fields: map[string]any{
			"Photos": []any{
				map[string]any{"id": "att01"}, // attachment without a url
			},
		},
	}

	source := mocks.NewMockSource(ctrl)
	source.EXPECT().GetRecord(gomock.Any(), "rec1").Return(record, nil).Times(2)

	cl := newTestLogic(t, source)

	_, err := cl.ResolveImage(context.Background(), KindPhoto, "rec1", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cl.ResolveImage(context.Background(), KindPhoto, "rec1", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
