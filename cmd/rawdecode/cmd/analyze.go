package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// NewAnalyzeCmd decodes a payload file the same way "decode" does, then
// prints per-channel statistics and optionally dumps the raw buffer.
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	decodeCmd := NewDecodeCmd(ctx)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "analyze a decoded CR2/VC-5 image buffer",
		Long:  "decode a payload file and report per-channel min/max, black/white point, and bad-pixel count",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			path, _ := cmd.Flags().GetString("file")
			if path == "" && len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("file path is required; use --file or provide as an argument")
			}
			dumpOut, _ := cmd.Flags().GetString("out")

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

			analyzeImage(img)

			if dumpOut != "" {
				return dumpRawBuffer(img, dumpOut)
			}
			return nil
		},
	}

	cmd.PersistentFlags().AddFlagSet(decodeCmd.PersistentFlags())
	cmd.Flags().String("out", "", "dump the decoded buffer's native rows to this path")
	return cmd
}

func analyzeImage(img rawimage.Image) {
	dim := img.Dim()
	cpp := img.Cpp()
	fmt.Printf("=== Image ===\n")
	fmt.Printf("dimensions: %dx%d, components per pixel: %d\n", dim.X, dim.Y, cpp)
	fmt.Printf("black level: %d, white point: %d\n", img.BlackLevel(), img.WhitePoint())
	fmt.Printf("bad pixels: %d\n", len(img.BadPixelPositions()))

	for c := 0; c < cpp; c++ {
		minV, maxV := uint16(0xffff), uint16(0)
		var sum uint64
		for y := 0; y < dim.Y; y++ {
			for x := 0; x < dim.X; x++ {
				v := img.GetU16(x, y, c)
				if v < minV {
					minV = v
				}
				if v > maxV {
					maxV = v
				}
				sum += uint64(v)
			}
		}
		count := uint64(dim.X * dim.Y)
		avg := uint64(0)
		if count > 0 {
			avg = sum / count
		}
		fmt.Printf("channel %d: min=%d, max=%d, avg=%d\n", c, minV, maxV, avg)
	}

	if warnings := img.ErrorLogger().Warnings(); len(warnings) > 0 {
		fmt.Println("warnings:")
		for _, w := range warnings {
			fmt.Println(" -", w)
		}
	}
}

func dumpRawBuffer(img rawimage.Image, outPath string) error {
	dim := img.Dim()
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	for y := 0; y < dim.Y; y++ {
		if _, err := f.Write(img.Row(y)); err != nil {
			return fmt.Errorf("writing row %d: %w", y, err)
		}
	}
	fmt.Printf("dumped %dx%d raw buffer to %s\n", dim.X, dim.Y, outPath)
	return nil
}
