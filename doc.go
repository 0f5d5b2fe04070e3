// Package btpower is a client for portable power station devices that
// speak a vendor MODBUS RTU dialect tunneled over two BLE GATT
// characteristics. It builds on the lower-level rtu, field, schema,
// transport and session packages to provide a Reader that connects,
// optionally negotiates an RSA/AES session, and serves typed Read/Write
// operations against a device's declared schema.
package btpower
