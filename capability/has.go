package capability

import "github.com/samber/lo"

// Has reports whether impl exposes op.
func Has(impl Impl, op Op) bool {
	if impl == nil {
		return false
	}

	var ok bool
	switch op {
	case OpText:
		_, ok = impl.(Texter)
	case OpJSON:
		_, ok = impl.(JSONReader)
	case OpBytes:
		_, ok = impl.(ByteReader)
	case OpArrayBuffer:
		_, ok = impl.(ArrayBufferReader)
	case OpWrite:
		_, ok = impl.(Writer)
	case OpIsFile:
		_, ok = impl.(FileChecker)
	case OpIsDirectory:
		_, ok = impl.(DirectoryChecker)
	case OpCreateDirectory:
		_, ok = impl.(DirectoryCreator)
	case OpDelete:
		_, ok = impl.(Deleter)
	case OpDeleteAll:
		_, ok = impl.(RecursiveDeleter)
	case OpList:
		_, ok = impl.(Lister)
	case OpSize:
		_, ok = impl.(Sizer)
	case OpCopy:
		_, ok = impl.(Copier)
	case OpCopyAll:
		_, ok = impl.(RecursiveCopier)
	case OpMove:
		_, ok = impl.(Mover)
	}

	if !ok {
		return false
	}

	if p, dynamic := impl.(Prober); dynamic {
		return p.Supports(op)
	}

	return true
}

// Supported returns the operations impl exposes, in declaration order.
func Supported(impl Impl) []Op {
	return lo.Filter(Ops(), func(op Op, _ int) bool {
		return Has(impl, op)
	})
}

// Parse resolves an operation name. Matching is exact.
func Parse(name string) (Op, bool) {
	return lo.Find(Ops(), func(op Op) bool {
		return string(op) == name
	})
}
