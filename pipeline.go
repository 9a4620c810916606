package n64tex

import (
	"context"
	"image"
	"runtime"
	"sync"
)

// Frame is a single texture decoded during a sweep.
type Frame struct {
	Offset int
	Image  *image.NRGBA
}

func (t *N64Tex) findOffsets(ctx context.Context, count int) (<-chan int, <-chan error, error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := 0; i < count; i++ {
			// Checked first as select picks at random between ready cases
			if ctx.Err() != nil {
				errc <- errSweepCancelled
				return
			}
			select {
			case out <- i:
			case <-ctx.Done():
				errc <- errSweepCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func (t *N64Tex) windowWorker(ctx context.Context, f *BinFile, w Window, stride int, in <-chan int, frames []Frame) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for i := range in {
			ww := w
			ww.Offset += i * stride

			m, ok, err := f.Decode(ww)
			if err != nil {
				errc <- err
				return
			}
			if !ok {
				t.logger.Printf("Nothing to draw at %#x\n", ww.Offset)
				continue
			}

			// Each index is only ever handed to one worker
			frames[i] = Frame{
				Offset: ww.Offset,
				Image:  m,
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Sweep decodes count textures described by w, each one stride bytes after
// the last. A stride of zero or less steps by the size of one texture and a
// count of zero or less sweeps to the end of the file. Frames that would
// start past the end of the file are dropped.
func (t *N64Tex) Sweep(ctx context.Context, f *BinFile, w Window, stride, count int) ([]Frame, error) {
	if stride <= 0 {
		stride = w.Format.Size(w.Width, w.Height)
		if stride == 0 {
			stride = 1
		}
	}
	if count <= 0 {
		count = (len(f.Data) - w.Offset + stride - 1) / stride
		if count < 0 {
			count = 0
		}
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	frames := make([]Frame, count)

	offsets, errc, err := t.findOffsets(ctx, count)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		errc, err := t.windowWorker(ctx, f, w, stride, offsets, frames)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	out := frames[:0]
	for _, frame := range frames {
		if frame.Image != nil {
			out = append(out, frame)
		}
	}

	t.logger.Printf("Decoded %d of %d frames\n", len(out), count)

	return out, nil
}
