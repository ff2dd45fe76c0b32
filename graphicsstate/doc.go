// Package graphicsstate provides PDF graphics state management.
//
// The PDF graphics state controls how content is rendered. Preflight only
// needs the part of it that decides where things land on the page, so
// [State] currently carries the CTM (Current Transformation Matrix) and
// nothing else. New fields belong in State as plain values so that copying a
// State by assignment stays a complete, independent snapshot.
//
// # State Stack
//
// [Stack] implements the q/Q save and restore stack:
//
//	st := graphicsstate.NewStack()
//	st.Push()                          // q
//	st.Concat(model.Scale(72, 72))     // 72 0 0 72 0 0 cm
//	ctm := st.Current().CTM
//	st.Pop()                           // Q
//
// A stack is never empty. It starts with one default frame (identity CTM)
// and Pop refuses to remove that last frame, so an unbalanced Q in a content
// stream is harmless.
package graphicsstate
