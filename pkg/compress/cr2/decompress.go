package cr2

import (
	"fmt"

	"github.com/jpfielding/rawspeed.go/pkg/bitio"
	"github.com/jpfielding/rawspeed.go/pkg/rawimage"
)

// decompressNXY is the single runtime-parameterized version of the
// original's decompressN_X_Y<N_COMP, X_S_F, Y_S_F> template. See
// https://github.com/lclevy/libcraw2/blob/master/docs/cr2_lossless.pdf
// for the slice/sampling-factor layout this walks.
func (d *Decompressor) decompressNXY() error {
	nComp, xsf, ysf := d.format.NComp, d.format.XSF, d.format.YSF
	subSampled := d.format.subSampled()

	sliceColStep := nComp * xsf
	frameRowStep := ysf
	pixelsPerGroup := xsf * ysf
	groupSize := nComp
	cpp := 1
	if subSampled {
		groupSize = 2 + pixelsPerGroup
		cpp = 3
	}
	colsPerGroup := cpp
	if subSampled {
		colsPerGroup = groupSize
	}

	dim := d.img.Dim()
	realDim := dim
	if subSampled {
		if realDim.X%groupSize != 0 {
			return fmt.Errorf("%w: image width %d not a multiple of group size %d", rawimage.ErrValidation, realDim.X, groupSize)
		}
		realDim.X /= groupSize
	}
	realDim.X *= xsf
	realDim.Y *= ysf

	pred := make([]int32, nComp)
	for c, r := range d.rec {
		pred[c] = int32(r.InitPred)
	}

	bs := bitio.NewBitPumpJPEG(d.input)

	widths := []int{d.slicing.SliceWidth, d.slicing.LastSliceWidth}
	for _, width := range widths {
		if width > realDim.X {
			return fmt.Errorf("%w: slice width %d longer than image width %d", rawimage.ErrValidation, width, realDim.X)
		}
		if width%sliceColStep != 0 {
			return fmt.Errorf("%w: slice width %d not a multiple of pixel group size %d", rawimage.ErrValidation, width, sliceColStep)
		}
		if width%cpp != 0 {
			return fmt.Errorf("%w: slice width %d not a multiple of cpp %d", rawimage.ErrValidation, width, cpp)
		}
	}

	if int64(d.frame.Y)*int64(d.slicing.TotalWidth()) < int64(cpp)*int64(realDim.X)*int64(realDim.Y) {
		return fmt.Errorf("%w: slice geometry smaller than image size", rawimage.ErrValidation)
	}

	// predNext tracks the (row, col) the next frame-row's predictor
	// reset should read from; it starts pointing at the very first
	// output element.
	predNextRow, predNextCol := 0, 0

	globalFrameCol := 0
	globalFrameRow := 0

	for sliceID := 0; sliceID < d.slicing.NumSlices; sliceID++ {
		sliceWidth := d.slicing.WidthOfSlice(sliceID)

		for sliceFrameRow := 0; sliceFrameRow < d.frame.Y; sliceFrameRow += frameRowStep {
			row := globalFrameRow % realDim.Y
			col := globalFrameRow / realDim.Y * d.slicing.WidthOfSlice(0) / cpp
			if col >= realDim.X {
				break
			}

			pixelsPerSliceRow := sliceWidth / cpp
			if col+pixelsPerSliceRow > realDim.X {
				return fmt.Errorf("%w: bad slice width / frame size / image size combination", rawimage.ErrValidation)
			}
			if sliceID+1 == d.slicing.NumSlices && col+pixelsPerSliceRow != realDim.X {
				return fmt.Errorf("%w: insufficient slices, image not fully covered", rawimage.ErrValidation)
			}

			row /= ysf
			col /= xsf
			col *= colsPerGroup

			for sliceCol := 0; sliceCol < sliceWidth; {
				if globalFrameCol == d.frame.X {
					for c := 0; c < nComp; c++ {
						readCol := predNextCol
						if c != 0 {
							readCol = predNextCol + groupSize - (nComp - c)
						}
						pred[c] = int32(d.img.At16(predNextRow, readCol))
					}
					predNextRow, predNextCol = row, col
					globalFrameCol = 0
				}

				sliceColsRemainingInFrameRow := sliceColStep * ((d.frame.X - globalFrameCol) / xsf)
				sliceColsRemainingInSliceRow := sliceWidth - sliceCol
				remaining := sliceColsRemainingInSliceRow
				if sliceColsRemainingInFrameRow < remaining {
					remaining = sliceColsRemainingInFrameRow
				}

				sliceColEnd := sliceCol + remaining
				for ; sliceCol < sliceColEnd; sliceCol, globalFrameCol, col = sliceCol+sliceColStep, globalFrameCol+xsf, col+groupSize {
					for p := 0; p < groupSize; p++ {
						c := 0
						if p >= pixelsPerGroup {
							c = p - pixelsPerGroup + 1
						}
						diff, err := d.rec[c].HT.DecodeDifference(bs)
						if err != nil {
							return fmt.Errorf("%w: component %d at row %d col %d: %v", rawimage.ErrMalformedInput, c, row, col+p, err)
						}
						pred[c] += int32(diff)
						d.img.Set16(row, col+p, uint16(pred[c]))
					}
				}
			}
			globalFrameRow += frameRowStep
		}
	}
	return nil
}
