// Package link provides the device side of the wearable link protocol.
package link

// The link runs over an ordered, best-effort byte stream (e.g. an HM-10
// UART bridge). A single stream carries three things without any extra
// framing layer:
//
// - Handshake: the central sends "AT" anywhere in the stream, the device
//   replies "#;" and considers the link connected.
// - Commands: a digit '0'..'4' anywhere in the stream selects one of the
//   fixed sampling periods, even in the middle of a message.
// - Messages: bytes up to the ';' sentinel are delivered as a line.
//
// Device to central, each emitted sample is a record "%8d,%5d;" of the
// epoch in microseconds and the L1-norm of the acceleration.
//
// Producer: wearable firmware core
// Consumer: central (see package central)
