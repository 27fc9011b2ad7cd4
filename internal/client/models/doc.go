// Package models defines the client-side data models exchanged with the
// DocVault API: documents and the category/subcategory taxonomy.
package models
