package rawimage

import (
	"runtime"
	"sync"
)

// WorkerTask identifies which row-range operation a Worker performs.
// The bit pattern matches the original's RawImageWorkerTask: APPLY_LOOKUP
// and FULL_IMAGE share the 0x1000 flag so a task can be tagged "operate
// on the whole uncropped image, not just the cropped view" independent
// of which operation it is.
type WorkerTask int

const (
	TaskScaleValues  WorkerTask = 1
	TaskFixBadPixels WorkerTask = 2
	taskFullImage    WorkerTask = 0x1000
	TaskApplyLookup  WorkerTask = 3 | taskFullImage
)

// RunWorkers partitions [0, height) into runtime.NumCPU() row ranges
// and runs fn over each range concurrently, joining before returning.
// height is the cropped or uncropped row count depending on the task,
// matching startWorker(task, cropped) in the original.
func RunWorkers(height int, fn func(startY, endY int)) {
	numWorkers := runtime.NumCPU()
	if numWorkers > height {
		numWorkers = height
	}
	if numWorkers <= 0 {
		return
	}

	rowsPerWorker := height / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if w == numWorkers-1 {
			end = height
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fn(startY, endY)
		}(start, end)
	}
	wg.Wait()
}

// StartWorker dispatches task across the image's rows. cropped selects
// whether the task runs over the cropped view (dim) or the full
// uncropped buffer (uncropped) — APPLY_LOOKUP always runs full-image
// since a lookup must also cover border padding that later gets
// expanded, everything else defaults to the cropped view.
func (img Image) StartWorker(task WorkerTask, cropped bool) {
	height := img.data.dim.Y
	if !cropped || task&taskFullImage != 0 {
		height = img.data.uncropped.Y
	}

	switch task &^ taskFullImage {
	case TaskScaleValues:
		RunWorkers(height, func(start, end int) { img.scaleValues(start, end) })
	case TaskFixBadPixels:
		RunWorkers(height, func(start, end int) { img.fixBadPixelsRange(start, end) })
	case TaskApplyLookup &^ taskFullImage:
		RunWorkers(height, func(start, end int) { img.applyLookup(start, end) })
	}
}

// scaleValues rescales every sample in [startY, endY) from
// [blackLevel, whitePoint] to the full 16-bit range, the U16
// counterpart of RawImageDataU16::scaleValues_plain.
func (img Image) scaleValues(startY, endY int) {
	d := img.data
	if d.blackLevel < 0 {
		return
	}
	black := int32(d.blackLevel)
	white := int32(d.whitePoint)
	if white <= black {
		return
	}
	scale := float64(65535) / float64(white-black)

	for y := startY; y < endY; y++ {
		row := img.RowU16(y)
		for i, v := range row {
			val := (int32(v) - black)
			if val < 0 {
				val = 0
			}
			scaled := int32(float64(val) * scale)
			if scaled > 65535 {
				scaled = 65535
			}
			row[i] = uint16(scaled)
		}
		img.PutRowU16(y, row)
	}
}

func (img Image) fixBadPixelsRange(startY, endY int) {
	d := img.data
	d.badPixelMu.Lock()
	positions := append([]uint32(nil), d.badPixelPositions...)
	d.badPixelMu.Unlock()

	for _, p := range positions {
		x, y := int(p&0xffff), int(p>>16)
		if y < startY || y >= endY {
			continue
		}
		img.fixBadPixel(x, y)
	}
}

// applyLookup re-maps every sample in [startY, endY) through the
// installed lookup table (if any), threading a per-row dither counter
// the way setWithLookUp's random pointer is threaded across a row.
func (img Image) applyLookup(startY, endY int) {
	d := img.data
	if d.table == nil {
		return
	}
	for y := startY; y < endY; y++ {
		random := uint32(y*9781 + 1) // distinct, nonzero per-row seed
		row := img.RowU16(y)
		for i, v := range row {
			row[i] = d.table.lookup(v, &random)
		}
		img.PutRowU16(y, row)
	}
}
