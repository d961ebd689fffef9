package objfile

import "github.com/wit-vcs/wit/plumbing"

type objfileFixture struct {
	t       plumbing.ObjectType
	hash    string
	content string
	data    string
}

var objfileFixtures = []objfileFixture{
	{
		t:       plumbing.BlobObject,
		hash:    "3b18e512dba79e4c8300dd08aeb37f8e728b8dad",
		content: "aGVsbG8gd29ybGQK",
		data:    "eJxLyslPUjA0YshIzcnJVyjPL8pJ4QIARBEGiQ==",
	},
	{
		t:       plumbing.BlobObject,
		hash:    "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		content: "",
		data:    "eJxLyslPUjBgAAAJsAHw",
	},
	{
		t:       plumbing.TreeObject,
		hash:    "4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		content: "",
		data:    "eJwrKUpNVTBgAAAKLAIB",
	},
	{
		t:       plumbing.CommitObject,
		hash:    "3cb8bec9a0ae63e9f0d1967b31caca597af00982",
		content: "dHJlZSA0YjgyNWRjNjQyY2I2ZWI5YTA2MGU1NGJmOGQ2OTI4OGZiZWU0OTA0CmF1dGhvciBBIFUgVGhvciA8YXV0aG9yQGV4YW1wbGUuY29tPiAxMjM0NTY3ODkwICswMDAwCmNvbW1pdHRlciBBIFUgVGhvciA8YXV0aG9yQGV4YW1wbGUuY29tPiAxMjM0NTY3ODkwICswMDAwCgppbml0aWFsIGNvbW1pdAo=",
		data:    "eJyVjV0KwjAQhH3OKfZdkG26SRMQ0TvoAbLbLQaaRkoEj+9PT+A8DR/MN1JLyQ26od+1VRWIg3WjeLLCXjkm9KiOeAqjjzaEiVUpIpn0bPe6wgVucP2W4wbO+krlMetBajlBZ3tyfggRYY+fGPndNf17aPKSW04zbAbzBhoqN5M=",
	},
	{
		t:       plumbing.TagObject,
		hash:    "763eb6152278b7d79fd12a894f6bbad17e705024",
		content: "b2JqZWN0IDRiODI1ZGM2NDJjYjZlYjlhMDYwZTU0YmY4ZDY5Mjg4ZmJlZTQ5MDQKdHlwZSBjb21taXQKdGFnIHYxLjAKdGFnZ2VyIEEgVSBUaG9yIDxhdXRob3JAZXhhbXBsZS5jb20+IDEyMzQ1Njc4OTAgKzAwMDAKCnJlbGVhc2UK",
		data:    "eJwVjEEOwiAQRV1zitmbNFM6ICSN0TvoARg6rZoSGkSjtxf/5r3Fy69hgX7Qu8wPiRWInTZTtKQjW2Ef0KIY4tlN1mvnZhYhj6TqdxOIOaV7VbV9vPsO/7JIgTNc4XLLBcbwqo0n+YS0rdK1/gi9HsjYg/MIe2xTqsgq4SnqB5GcKa4=",
	},
}
