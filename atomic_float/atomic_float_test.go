package atomic_float

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicAdd(t *testing.T) {
	Convey("When AtomicAdd is called", t, func() {
		Convey("When multiple writers add to the float value concurrently", func() {
			af := NewAtomicFloat64(0)
			numOps := 3000
			numWriters := 50

			start := make(chan struct{})
			wg := sync.WaitGroup{}
			wg.Add(numWriters)
			adder := func() {
				defer wg.Done()
				<-start
				for i := 0; i < numOps; i++ {
					for succeeded := false; !succeeded; _, succeeded = af.AtomicAdd(1.0) {
					}
				}
			}

			for i := 0; i < numWriters; i++ {
				go adder()
			}

			// Wait for goroutines to begin
			time.Sleep(time.Millisecond * 10)
			close(start)
			wg.Wait()
			So(af.AtomicRead(), ShouldEqual, float64(numOps*numWriters))
		})
	})
}

func TestAtomicSet(t *testing.T) {
	Convey("When a reader observes a value set by another goroutine", t, func() {
		af := NewAtomicFloat64(0.25)
		So(af.AtomicRead(), ShouldEqual, 0.25)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 1; i <= 100; i++ {
				af.AtomicSet(float64(i) / 100)
			}
		}()
		<-done
		So(af.AtomicRead(), ShouldEqual, 1.0)
	})
}
