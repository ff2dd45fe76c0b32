// Package resolver looks up the resources a page's content stream refers to.
//
// Resource dictionaries and the objects they name are usually stored as
// indirect references (e.g., "5 0 R"). The resolver follows these references
// through an [ObjectReader], detecting circular chains, and reports the image
// XObjects a page can draw with the Do operator:
//
//	r := resolver.NewResolver(ctx)
//	images := r.Images(resources)
//	if img, ok := images["Im1"]; ok {
//	    fmt.Println(img.Width, img.Height)
//	}
//
// Fonts, RGB colour spaces and transparency group forms are looked up the
// same way with [Resolver.Fonts], [Resolver.RGBColorSpaces] and
// [Resolver.TransparentForms].
//
// Resolution never fails a page. Missing or malformed resources, unreadable
// objects and reference cycles all degrade to "no image" for the affected
// entry and are only logged at debug level.
//
// The maximum length of a reference chain is configurable:
//
//	r := resolver.NewResolver(ctx, resolver.WithMaxDepth(50))
package resolver
