// Package pixel implements the color model and the packed pixel buffer used by the rasterizer.
//
// Colors are kept in both HSL and RGBA form. A [Buffer] stores one 32-bit word per pixel,
// packed as (alpha<<24)|(blue<<16)|(green<<8)|red, and is compatible with Go's native
// [image.Image] and [draw.Image] interfaces.
package pixel
