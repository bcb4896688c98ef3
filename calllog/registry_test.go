package calllog

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := NewRegistry(WithClock(fixedClock(1700000000000)))

		Convey("Recording without open logs is a no-op", func() {
			r.Record("text", "a")
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("Start should reject an empty name", func() {
			So(errors.Is(r.Start(""), ErrInvalidArgument), ShouldBeTrue)
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("End should reject a name that was never started", func() {
			records, err := r.End("y")
			So(errors.Is(err, ErrUnknownLog), ShouldBeTrue)
			So(records, ShouldBeNil)
		})

		Convey("When a log is started", func() {
			So(r.Start("a"), ShouldBeNil)

			Convey("Starting it again should fail and keep it open", func() {
				So(errors.Is(r.Start("a"), ErrDuplicateLog), ShouldBeTrue)
				So(r.Names(), ShouldResemble, []string{"a"})
			})

			Convey("Ending it immediately should yield an empty log", func() {
				records, err := r.End("a")
				So(err, ShouldBeNil)
				So(records, ShouldNotBeNil)
				So(records, ShouldBeEmpty)
			})

			Convey("Calls should be recorded in order with their arguments", func() {
				r.Record("op1", "f", 1)
				r.Record("op2")

				records, err := r.End("a")
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Method, ShouldEqual, "op1")
				So(records[0].Args, ShouldResemble, []any{"f", 1})
				So(records[0].Timestamp, ShouldEqual, 1700000000000)
				So(records[1].Method, ShouldEqual, "op2")
				So(records[1].Args, ShouldResemble, []any{})

				Convey("And the log should be gone", func() {
					_, err := r.End("a")
					So(errors.Is(err, ErrUnknownLog), ShouldBeTrue)
				})
			})

			Convey("Arguments should be copied on record", func() {
				args := []any{"original"}
				r.Record("text", args...)
				args[0] = "mutated"

				records, _ := r.End("a")
				So(records[0].Args[0], ShouldEqual, "original")
			})
		})

		Convey("Two concurrent logs", func() {
			So(r.Start("a"), ShouldBeNil)
			r.Record("first")
			So(r.Start("b"), ShouldBeNil)
			r.Record("second")

			Convey("Both should receive calls made while both are open", func() {
				a, err := r.End("a")
				So(err, ShouldBeNil)
				So(a, ShouldHaveLength, 2)

				r.Record("third")

				b, err := r.End("b")
				So(err, ShouldBeNil)
				So(b, ShouldHaveLength, 2)
				So(b[0].Method, ShouldEqual, "second")
				So(b[1].Method, ShouldEqual, "third")
			})

			Convey("Names should be sorted", func() {
				So(r.Names(), ShouldResemble, []string{"a", "b"})
			})

			Convey("Each log should own its records", func() {
				data := []byte("abc")
				r.Record("write", "f", data)

				a, err := r.End("a")
				So(err, ShouldBeNil)
				a[2].Args[0] = "tampered"
				a[2].Args[1].([]byte)[0] = 'Y'
				data[0] = 'Z'

				b, err := r.End("b")
				So(err, ShouldBeNil)
				So(b[1].Args[0], ShouldEqual, "f")
				So(b[1].Args[1], ShouldResemble, []byte("abc"))
			})
		})
	})
}

func TestRegistryConcurrentRecord(t *testing.T) {
	Convey("Concurrent records should all land", t, func() {
		r := NewRegistry()
		So(r.Start("x"), ShouldBeNil)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Record("size", "f")
			}()
		}
		wg.Wait()

		records, err := r.End("x")
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 50)
	})
}

func TestRecordString(t *testing.T) {
	Convey("Record.String", t, func() {
		So(Record{Method: "write", Args: []any{"a.txt", []byte("abc")}}.String(), ShouldEqual, `write("a.txt", 3 bytes)`)
		So(Record{Method: "resetImpl", Args: []any{}}.String(), ShouldEqual, "resetImpl()")
		So(Record{Method: "setImpl", Args: []any{nil}}.String(), ShouldEqual, "setImpl(nil)")
	})
}
