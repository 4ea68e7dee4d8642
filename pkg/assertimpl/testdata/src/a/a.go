package a

import "fmt"

// Sharable types are safe to share between goroutines.
type Sharable interface{ Sharable() }

type Int int

func (Int) Sharable() {}

type Uint8 uint8

func (Uint8) Sharable() {}

// RawPtr is not safe to share.
type RawPtr struct{ p *byte }

func (r RawPtr) String() string { return fmt.Sprint(r.p) }

//assertimpl:check Sharable: Int, Uint8
//assertimpl:check Sharable: Int, Uint8,
//assertimpl:check !Sharable: *RawPtr
//assertimpl:check !Sharable: *RawPtr,
//assertimpl:check fmt.Stringer: RawPtr, *RawPtr
//assertimpl:check Sharable: Int /* trailing comment */

//assertimpl:check Sharable: Int, *RawPtr // want `\*RawPtr does not satisfy Sharable \(missing method Sharable\)`
//assertimpl:check !Sharable: *RawPtr, Uint8, // want `ambiguous mark for Uint8 \(hasIt, lacksIt\): Uint8 satisfies Sharable`
//assertimpl:check !Sharable: Int, Uint8 // want `ambiguous mark for Int` `ambiguous mark for Uint8`

//assertimpl:check Sharable: // want `malformed assertion: expected at least one type`
//assertimpl:check !Sharable: , // want `malformed assertion: expected at least one type`
//assertimpl:check Sharable: Missing // want `malformed assertion: type Missing: .*undefined: Missing`

func f() {
	type local int
	//assertimpl:check !Sharable: local
	//assertimpl:check Sharable: local // want `local does not satisfy Sharable`
}
