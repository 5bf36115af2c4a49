// Package codec provides record serialization and deserialization for the
// clock store.
//
// A record is a flat, fixed set of named primitive fields. The codec turns
// such a record into a compact JSON object and parses that object back into
// a typed field view. It knows nothing about which fields a record has; the
// caller supplies the fields in order when encoding and asks for each one by
// name when decoding.
//
// # Record Format
//
// Records are single JSON objects with one key per field:
//
//	{"ntp_pool":"pool.ntp.org","ntp_update_interval":7200,"showSeconds":true}
//
// Field values map as follows:
//   - text fields are JSON strings
//   - integer, byte and enumerated fields are JSON integers
//   - boolean fields are JSON true/false
//
// Keys appear in the order the fields were given to Encode, so encoding the
// same record twice yields identical bytes.
//
// # Usage
//
//	codec := codec.NewRecordCodec()
//
//	encoded, err := codec.Encode([]codec.Field{
//	    {Key: "uptime", Value: uint64(1440)},
//	    {Key: "tubeontime", Value: uint64(600)},
//	})
//	if err != nil {
//	    return err
//	}
//
//	record, err := codec.Decode(encoded)
//	if err != nil {
//	    return err // codec.ErrMalformed
//	}
//
//	uptime, status := record.Uint("uptime")
//
// # Field Lookups
//
// Each lookup returns the value together with a Status:
//   - StatusOK: the key is present and holds (or coerces to) the type
//   - StatusMissing: the key is absent
//   - StatusMismatch: the key is present but cannot be read as the type
//
// Any status other than StatusOK comes with the zero value. Lookups coerce
// numeric strings to integers and "true"/"false"/"1"/"0" or numbers to
// booleans. Domain checks (for example an enum outside its range) are left to
// the caller.
//
// # Error Handling
//
// Decode reports unparseable input, and input that is valid JSON but not an
// object, as ErrMalformed. It never panics on corrupt or truncated data.
package codec
