// Package objectstore implements remote.Gateway over an S3-compatible bucket.
//
// Layout inside the bucket:
//
//	reports/<id>.json              one document per report
//	accounts/<sha256(email)>.json  bcrypt password hash and user id
//	users/<uid>.json               public profile
//
// Report listings are served by listing the reports/ prefix. The signed-in
// session is process local.
package objectstore
