package curated

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/petplaces-service/internal/entity"
)

func TestLoadBundledDataset(t *testing.T) {
	d, err := Load()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, d.Len(), 50, "curated list should cover the expected venue count")
}

func TestKeywordsFollowDatasetOrder(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	keywords := d.Keywords()
	require.Len(t, keywords, d.Len())
	assert.Equal(t, "오르디", keywords[0])

	places := d.Places()
	for i, p := range places {
		assert.Equal(t, p.Title, keywords[i])
	}
}

func TestByTitleLookup(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	cp, ok := d.ByTitle("오르디")
	require.True(t, ok)
	assert.Equal(t, "카페", cp.LocationGubun)

	_, ok = d.ByTitle("없는 가게")
	assert.False(t, ok)
}

func TestFromPlacesBuildsIndex(t *testing.T) {
	d := FromPlaces([]entity.CuratedPlace{{Title: "테스트", LocationGubun: "공원"}})

	cp, ok := d.ByTitle("테스트")
	require.True(t, ok)
	assert.Equal(t, "공원", cp.LocationGubun)
	assert.Equal(t, []string{"테스트"}, d.Keywords())
}

func TestCuratedRecordConversion(t *testing.T) {
	cp := entity.CuratedPlace{Title: "오르디", Addr: "부산", LocationGubun: "카페", WithGubun: "전견종", HolidayOpen: true}

	rec := cp.Record()

	assert.Equal(t, "오르디", rec.Title)
	assert.Equal(t, "부산", rec.Addr1)
	assert.Equal(t, entity.SourceCurated, rec.Source)
	assert.Equal(t, "카페", rec.LocationGubun)
	require.NotNil(t, rec.HolidayOpen)
	assert.True(t, *rec.HolidayOpen)
}
