// Package observable provides a conflated, multi-subscriber state holder.
package observable
