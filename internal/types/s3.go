package types

// S3ObjectInfo identifies one stored image to label.
type S3ObjectInfo struct {
	Bucket string
	Key    string
}

// S3Record mirrors the subset of the S3 notification payload the
// handler consumes.
type S3Record struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

type S3ObjectCreatedEvent struct {
	Records []S3Record `json:"Records"`
}
