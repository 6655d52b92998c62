// Package svd defines the hardware description tree consumed by the register
// dashboard and the loaders that produce it.
//
// A description is a tree:
//
//	Device -> Peripheral -> Register -> Field
//
// Trees are immutable once returned by a Loader. Consumers compare
// peripherals and registers by pointer identity, never by name: two devices
// loaded side by side may well share peripheral names.
//
// # Formats
//
// Two on-disk formats are supported:
//   - CMSIS-SVD XML (.svd, .xml), the format vendors ship
//   - a compact YAML schema (.yaml, .yml), handy for tests and hand-written
//     descriptions of small devices
//
// FileLoader picks the decoder from the file extension.
package svd
