package cropper

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/smart-crop/pkg/colorspace"
)

var (
	gray   = color.NRGBA{128, 128, 128, 255}
	bright = color.NRGBA{255, 255, 255, 255}
)

// createTestImage creates a uniform image with bright pixels at the given points
func createTestImage(width, height int, highlights ...image.Point) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, gray)
		}
	}
	for _, p := range highlights {
		img.SetNRGBA(p.X, p.Y, bright)
	}
	return img
}

func createNoiseImage(width, height int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestNew(t *testing.T) {
	cropper := New()
	require.NotNil(t, cropper)

	cfg := cropper.Config()
	assert.Equal(t, 0.5, cfg.Tolerance)
	assert.Equal(t, 0.03, cfg.Bounceback)
	assert.Equal(t, 10.0, cfg.SampleDivisor)
	assert.Equal(t, 4, cfg.MinSampleStep)
	assert.NotNil(t, cfg.Metric)
	assert.NotNil(t, cfg.Logger)
}

func TestNewWithConfigFillsDefaults(t *testing.T) {
	cropper := NewWithConfig(CropConfig{Tolerance: 0.8})

	cfg := cropper.Config()
	assert.Equal(t, 0.8, cfg.Tolerance)
	assert.Equal(t, 0.03, cfg.Bounceback)
	assert.NotNil(t, cfg.Metric)
	assert.NotNil(t, cfg.Logger)
}

func TestResolveAxis(t *testing.T) {
	axis, err := ResolveAxis(image.Pt(100, 50), image.Pt(100, 30))
	require.NoError(t, err)
	assert.Equal(t, Vertical, axis)

	axis, err = ResolveAxis(image.Pt(100, 50), image.Pt(70, 50))
	require.NoError(t, err)
	assert.Equal(t, Horizontal, axis)

	axis, err = ResolveAxis(image.Pt(100, 50), image.Pt(100, 50))
	require.NoError(t, err)
	assert.Equal(t, AxisNone, axis)

	for _, crop := range []image.Point{{90, 40}, {101, 50}, {100, 51}, {0, 50}, {100, -1}} {
		_, err := ResolveAxis(image.Pt(100, 50), crop)
		assert.ErrorIs(t, err, ErrInvalidInput, "crop %v", crop)
	}
}

func TestCropOriginRejectsTwoAxisCrop(t *testing.T) {
	_, err := New().CropOrigin(createTestImage(100, 50), 90, 40)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, colorspace.ErrInvalidInput)
}

func TestCropOriginRejectsOversizedCrop(t *testing.T) {
	_, err := New().CropOrigin(createTestImage(100, 50), 100, 60)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCropOriginFullSizeIsNoop(t *testing.T) {
	origin, err := New().CropOrigin(createNoiseImage(40, 30, 1), 40, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), origin)

	sub := createNoiseImage(40, 30, 1).SubImage(image.Rect(5, 7, 25, 27))
	origin, err = New().CropOrigin(sub, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 7), origin)
}

func TestCropOriginUniformImageStaysCentered(t *testing.T) {
	origin, err := New().CropOrigin(createTestImage(100, 50), 100, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 10), origin)

	origin, err = New().CropOrigin(createTestImage(50, 100), 30, 100)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 0), origin)

	// An odd number of rows leaves the extra one to the near side.
	origin, err = New().CropOrigin(createTestImage(100, 51), 100, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 11), origin)
}

func TestCropOriginKeepsBrightEdgePixel(t *testing.T) {
	origin, err := New().CropOrigin(createTestImage(10, 10, image.Pt(0, 0)), 10, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), origin)

	origin, err = New().CropOrigin(createTestImage(10, 10, image.Pt(0, 9)), 10, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 2), origin)
}

func TestCropOriginHorizontal(t *testing.T) {
	origin, err := New().CropOrigin(createTestImage(10, 10, image.Pt(0, 0)), 8, 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), origin)

	origin, err = New().CropOrigin(createTestImage(10, 10, image.Pt(9, 0)), 8, 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 0), origin)
}

func TestCropOriginRespectsImageBounds(t *testing.T) {
	full := createTestImage(110, 60)
	sub := full.SubImage(image.Rect(5, 5, 105, 55))

	origin, err := New().CropOrigin(sub, 100, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 15), origin)
}

func TestFightbackReclaimsRows(t *testing.T) {
	var buf bytes.Buffer
	cropper := NewWithConfig(CropConfig{Logger: log.New(&buf, "", 0)})

	// Detail sits in row 3. After two drawn rounds the near side starts
	// winning and walks back over a row it had already conceded.
	origin, err := cropper.CropOrigin(createTestImage(10, 12, image.Pt(0, 3)), 10, 6)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 2), origin)
	assert.Contains(t, buf.String(), "axis=vertical rows=6 step=1")
	assert.Contains(t, buf.String(), "near=2 far=3 offset=2")
}

func TestCropOriginFreshCachePerCall(t *testing.T) {
	cropper := New()

	origin, err := cropper.CropOrigin(createTestImage(10, 10, image.Pt(0, 0)), 10, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), origin)

	origin, err = cropper.CropOrigin(createTestImage(10, 10, image.Pt(0, 9)), 10, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 2), origin)
}

func TestCropOriginWithinBounds(t *testing.T) {
	cropper := New()
	for seed := int64(0); seed < 5; seed++ {
		img := createNoiseImage(64, 48, seed)

		origin, err := cropper.CropOrigin(img, 64, 20)
		require.NoError(t, err)
		assert.Equal(t, 0, origin.X)
		assert.GreaterOrEqual(t, origin.Y, 0)
		assert.LessOrEqual(t, origin.Y, 28)

		origin, err = cropper.CropOrigin(img, 33, 48)
		require.NoError(t, err)
		assert.Equal(t, 0, origin.Y)
		assert.GreaterOrEqual(t, origin.X, 0)
		assert.LessOrEqual(t, origin.X, 31)
	}
}

func TestImageSourcesAgree(t *testing.T) {
	nrgba := createNoiseImage(30, 40, 7)
	rgba := image.NewRGBA(nrgba.Bounds())
	for y := 0; y < 40; y++ {
		for x := 0; x < 30; x++ {
			rgba.Set(x, y, nrgba.At(x, y))
		}
	}

	a, err := New().CropOrigin(nrgba, 30, 25)
	require.NoError(t, err)
	b, err := New().CropOrigin(rgba, 30, 25)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestImageSourceOffsetsAndAlpha(t *testing.T) {
	grayImg := image.NewGray(image.Rect(0, 0, 6, 6))
	grayImg.SetGray(2, 3, color.Gray{Y: 77})
	src := NewImageSource(grayImg.SubImage(image.Rect(2, 3, 6, 6)))
	assert.Equal(t, image.Pt(4, 3), src.Size())
	r, g, b := src.RGB(0, 0)
	assert.Equal(t, [3]uint8{77, 77, 77}, [3]uint8{r, g, b})

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.SetRGBA(1, 1, color.RGBA{50, 0, 0, 128})
	r, _, _ = NewImageSource(rgba).RGB(1, 1)
	assert.Equal(t, uint8(99), r)
}

func TestAlternativeMetrics(t *testing.T) {
	img := createTestImage(10, 10, image.Pt(0, 9))
	for _, metric := range []colorspace.DistanceFunc{colorspace.DeltaE2000, colorspace.DeltaCMC} {
		origin, err := NewWithConfig(CropConfig{Metric: metric}).CropOrigin(img, 10, 8)
		require.NoError(t, err)
		assert.Equal(t, image.Pt(0, 2), origin)
	}
}

func TestCropToSize(t *testing.T) {
	img := createTestImage(40, 30, image.Pt(39, 29))

	result, err := New().CropToSize(img, 30, 30)
	require.NoError(t, err)
	assert.Equal(t, Horizontal, result.Axis)
	assert.Equal(t, image.Pt(10, 0), result.Origin)
	assert.Equal(t, image.Rect(10, 0, 40, 30), result.Region)
	assert.Equal(t, image.Pt(30, 30), result.Image.Bounds().Size())

	// The bright pixel survives in the crop's bottom-right corner.
	assert.Equal(t, bright, color.NRGBAModel.Convert(result.Image.At(29, 29)))
}

func TestCropToSizeErrors(t *testing.T) {
	_, err := New().CropToSize(createTestImage(40, 30), 20, 20)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCropToSizes(t *testing.T) {
	img := createTestImage(40, 30)

	results, err := New().CropToSizes(img, []image.Point{{40, 20}, {25, 30}, {40, 30}})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, Vertical, results[0].Axis)
	assert.Equal(t, Horizontal, results[1].Axis)
	assert.Equal(t, AxisNone, results[2].Axis)

	_, err = New().CropToSizes(img, []image.Point{{40, 20}, {10, 10}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type fixedFinder image.Point

func (f fixedFinder) CropOrigin(img image.Image, width, height int) (image.Point, error) {
	return image.Point(f), nil
}

func TestApplyRejectsOutOfBoundsOrigin(t *testing.T) {
	_, err := Apply(createTestImage(40, 30), fixedFinder{X: 15}, 30, 30)
	assert.Error(t, err)

	result, err := Apply(createTestImage(40, 30), fixedFinder{X: 10}, 30, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 0, 40, 30), result.Region)
}

func TestSampleStep(t *testing.T) {
	assert.Equal(t, 1, sampleStep(2, 10, 10, 4))
	assert.Equal(t, 4, sampleStep(20, 100, 10, 4))
	assert.Equal(t, 1, sampleStep(9, 100, 10, 4))
	assert.Equal(t, 100, sampleStep(1000, 1000, 10, 4))
}

func TestContestRatio(t *testing.T) {
	assert.Equal(t, 1.0, contestRatio(0, 0))
	assert.Equal(t, 4.0, contestRatio(3, 0))
	assert.Equal(t, 0.0, contestRatio(0, 3))
	assert.Equal(t, 2.0, contestRatio(6, 3))
}

func TestBounceback(t *testing.T) {
	s := newSearch(NewImageSource(createTestImage(20, 40)), Vertical, image.Pt(20, 34), DefaultConfig())

	assert.Equal(t, 2, s.bounceback(3, 2.0))
	assert.Equal(t, 4, s.bounceback(3, 0.1))
	assert.Equal(t, 3, s.bounceback(3, 1.2))
	assert.Equal(t, 3, s.bounceback(3, 1.625))

	cfg := DefaultConfig()
	cfg.DisableBounceback = true
	s = newSearch(NewImageSource(createTestImage(20, 40)), Vertical, image.Pt(20, 34), cfg)
	assert.Equal(t, 3, s.bounceback(3, 2.0))
	assert.Equal(t, 3, s.bounceback(3, 0.1))
}

func TestNewWithConfigKeepsDisabledBounceback(t *testing.T) {
	cfg := NewWithConfig(CropConfig{DisableBounceback: true}).Config()
	assert.True(t, cfg.DisableBounceback)
	assert.Equal(t, 0.03, cfg.Bounceback)
}

var (
	originSink  image.Point
	resultsSink []CropResult
)

func BenchmarkCropOrigin(b *testing.B) {
	cropper := New()
	img := createNoiseImage(1920, 1080, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		origin, err := cropper.CropOrigin(img, 1920, 800)
		if err != nil {
			b.Fatal(err)
		}
		originSink = origin
	}
}

func BenchmarkCropToSizes(b *testing.B) {
	cropper := New()
	img := createNoiseImage(1200, 800, 1)
	sizes := []image.Point{{1200, 675}, {1200, 630}, {800, 800}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results, err := cropper.CropToSizes(img, sizes)
		if err != nil {
			b.Fatal(err)
		}
		resultsSink = results
	}
}
