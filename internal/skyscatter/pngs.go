package skyscatter

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
)

// previewImage maps an (nx, ny) RGB table to a 16-bit image, normalised by the
// table's peak channel and gamma corrected. Y is flipped so row 0 is at the bottom.
func previewImage(nx, ny int, at func(x, y int) mgl64.Vec3, gamma Real) *image.NRGBA64 {
	peak := 0.0
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			v := at(x, y)
			peak = math.Max(peak, math.Max(v[ChR], math.Max(v[ChG], v[ChB])))
		}
	}
	if peak == 0 || !isFinite(peak) {
		peak = 1 // the image will be black
	}
	scale := 1 / peak

	// Helper: map scalar -> [0..65535] with gamma.
	toU16 := func(v Real) uint16 {
		if !(v > 0) {
			return 0
		}
		n := math.Min(v*scale, 1)
		if gamma != 1 {
			n = math.Pow(n, 1/gamma)
		}
		return uint16(mgl64.Clamp(math.Round(n*65535), 0, 65535))
	}

	img := image.NewNRGBA64(image.Rect(0, 0, nx, ny))
	const pxBytes = 8 // 4 channels * 2 bytes/channel
	for j := 0; j < ny; j++ {
		rowOff := (ny - 1 - j) * img.Stride
		for i := 0; i < nx; i++ {
			v := at(i, j)
			p := rowOff + i*pxBytes
			// NRGBA64 stores big-endian uint16 per channel: R, G, B, A.
			for ch, c := range [4]uint16{toU16(v[ChR]), toU16(v[ChG]), toU16(v[ChB]), 0xFFFF} {
				img.Pix[p+2*ch] = uint8(c >> 8)
				img.Pix[p+2*ch+1] = uint8(c)
			}
		}
	}
	return img
}

// upscale enlarges narrow previews by an integer factor so single texels stay visible.
func upscale(img *image.NRGBA64) *image.NRGBA64 {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dx() >= PNGMinW {
		return img
	}
	k := (PNGMinW + b.Dx() - 1) / b.Dx()
	dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SavePreviews writes one PNG per 2-D table and one per mu_s slice of the
// scattering table, returning the written paths.
func SavePreviews(tab *Tables, dir, prefix string, gamma Real) ([]string, error) {
	var written []string
	save := func(name string, nx, ny int, at func(x, y int) mgl64.Vec3) error {
		path := filepath.Join(dir, prefix+"-"+name+".png")
		if err := writePNG(path, upscale(previewImage(nx, ny, at, gamma))); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}
	for _, g := range []struct {
		name string
		grid *Grid2[mgl64.Vec3]
	}{
		{FileTransmittance, tab.Transmittance.Grid},
		{FileIrradiance, tab.Irradiance},
		{FileIrradianceDirect, tab.DirectIrradiance},
	} {
		if err := save(g.name, g.grid.Nx, g.grid.Ny, g.grid.At); err != nil {
			return written, err
		}
	}

	sc := tab.Scattering
	// Zero-padding width based on number of slices.
	width := 1
	if sc.Nz > 1 {
		width = int(math.Log10(Real(sc.Nz-1))) + 1
	}
	for z := 0; z < sc.Nz; z++ {
		name := fmt.Sprintf("%s_%0*d", FileScattering, width, z)
		err := save(name, sc.Nx, sc.Ny, func(x, y int) mgl64.Vec3 { return sc.At(x, y, z).Vec3() })
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
