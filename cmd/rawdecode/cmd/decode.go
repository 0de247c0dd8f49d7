package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/rawspeed.go/pkg/compress/cr2"
	"github.com/jpfielding/rawspeed.go/pkg/compress/vc5"
	"github.com/jpfielding/rawspeed.go/pkg/huffman"
	"github.com/jpfielding/rawspeed.go/pkg/point"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// NewDecodeCmd decodes a CR2 or VC-5 payload file and prints summary
// statistics for the resulting image buffer.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decode a CR2 or VC-5 payload file",
		Long:  "decode a CR2 or VC-5 payload file into an in-memory raw image buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			path, _ := cmd.Flags().GetString("file")
			if path == "" && len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("file path is required; use --file or provide as an argument")
			}

			buf, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			var img rawimage.Image
			switch strings.ToLower(format) {
			case "cr2":
				img, err = decodeCR2(cmd, buf)
			case "vc5":
				img, err = decodeVC5(cmd, buf)
			default:
				return fmt.Errorf("unknown --format %q, expected cr2 or vc5", format)
			}
			if err != nil {
				return err
			}
			printSummary(img)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "payload file to decode")
	pf.String("format", "cr2", "payload format (cr2|vc5)")
	pf.Int("width", 0, "plane width in pixels")
	pf.Int("height", 0, "plane height in pixels")
	pf.Int("ncomp", 2, "cr2: components per pixel group")
	pf.Int("xsf", 1, "cr2: horizontal chroma subsample factor")
	pf.Int("ysf", 1, "cr2: vertical chroma subsample factor")
	pf.Int("num-slices", 1, "cr2: number of vertical slices")
	pf.Int("slice-width", 0, "cr2: width of each full slice (defaults to image width)")
	pf.Int("last-slice-width", 0, "cr2: width of the final slice (defaults to slice-width)")
	pf.String("huffman-counts", "", "cr2: comma-separated 16 code-length counts, shared across components")
	pf.String("huffman-values", "", "cr2: comma-separated symbol values in code order")
	pf.String("init-pred", "", "cr2: comma-separated per-component initial predictor values")
	return cmd
}

func decodeCR2(cmd *cobra.Command, buf []byte) (rawimage.Image, error) {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	ncomp, _ := cmd.Flags().GetInt("ncomp")
	xsf, _ := cmd.Flags().GetInt("xsf")
	ysf, _ := cmd.Flags().GetInt("ysf")
	numSlices, _ := cmd.Flags().GetInt("num-slices")
	sliceWidth, _ := cmd.Flags().GetInt("slice-width")
	lastSliceWidth, _ := cmd.Flags().GetInt("last-slice-width")
	countsCSV, _ := cmd.Flags().GetString("huffman-counts")
	valuesCSV, _ := cmd.Flags().GetString("huffman-values")
	predCSV, _ := cmd.Flags().GetString("init-pred")

	if width == 0 || height == 0 {
		return rawimage.Image{}, fmt.Errorf("--width and --height are required for cr2")
	}
	if sliceWidth == 0 {
		sliceWidth = width
	}
	if lastSliceWidth == 0 {
		lastSliceWidth = sliceWidth
	}

	counts, err := parseIntCSV(countsCSV)
	if err != nil || len(counts) != 16 {
		return rawimage.Image{}, fmt.Errorf("--huffman-counts must list exactly 16 integers: %w", err)
	}
	var countsArr [16]int
	copy(countsArr[:], counts)

	values, err := parseByteCSV(valuesCSV)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("parsing --huffman-values: %w", err)
	}
	table, err := huffman.New(countsArr, values)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("building huffman table: %w", err)
	}

	preds, err := parseIntCSV(predCSV)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("parsing --init-pred: %w", err)
	}
	if len(preds) == 0 {
		preds = make([]int, ncomp)
	}

	img, err := rawimage.New(point.Point{X: width, Y: height}, rawimage.TypeU16, 1)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("allocating image: %w", err)
	}
	img.SetIsCFA(xsf == 1 && ysf == 1)

	recipe := make([]cr2.PerComponentRecipe, ncomp)
	for c := range recipe {
		p := 0
		if c < len(preds) {
			p = preds[c]
		}
		recipe[c] = cr2.PerComponentRecipe{HT: table, InitPred: uint16(p)}
	}

	dec, err := cr2.New(img,
		cr2.Format{NComp: ncomp, XSF: xsf, YSF: ysf},
		point.Point{X: width, Y: height},
		cr2.Slicing{NumSlices: numSlices, SliceWidth: sliceWidth, LastSliceWidth: lastSliceWidth},
		recipe, buf)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("constructing cr2 decompressor: %w", err)
	}
	if err := dec.Decompress(); err != nil {
		return rawimage.Image{}, fmt.Errorf("decompressing cr2 payload: %w", err)
	}
	return img, nil
}

func decodeVC5(cmd *cobra.Command, buf []byte) (rawimage.Image, error) {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if width == 0 || height == 0 {
		return rawimage.Image{}, fmt.Errorf("--width and --height are required for vc5 (the full Bayer plane, not the per-channel size)")
	}

	img, err := rawimage.New(point.Point{X: width, Y: height}, rawimage.TypeU16, 1)
	if err != nil {
		return rawimage.Image{}, fmt.Errorf("allocating image: %w", err)
	}
	img.SetIsCFA(true)

	dec := vc5.New(buf)
	if err := dec.Decode(img, 0, 0); err != nil {
		return rawimage.Image{}, fmt.Errorf("decoding vc5 payload: %w", err)
	}
	return img, nil
}

func printSummary(img rawimage.Image) {
	dim := img.Dim()
	fmt.Printf("dimensions: %dx%d\n", dim.X, dim.Y)
	fmt.Printf("black level: %d, white point: %d\n", img.BlackLevel(), img.WhitePoint())
	fmt.Printf("bad pixels: %d\n", len(img.BadPixelPositions()))

	minV, maxV := uint16(0xffff), uint16(0)
	for y := 0; y < dim.Y; y++ {
		for x := 0; x < dim.X; x++ {
			v := img.GetU16(x, y, 0)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	fmt.Printf("pixel range: min=%d, max=%d\n", minV, maxV)

	if warnings := img.ErrorLogger().Warnings(); len(warnings) > 0 {
		fmt.Println("warnings:")
		for _, w := range warnings {
			fmt.Println(" -", w)
		}
	}
}

func parseIntCSV(csv string) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("field %d (%q): %w", i, p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseByteCSV(csv string) ([]byte, error) {
	ints, err := parseIntCSV(csv)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	return out, nil
}
