// Package profilesvc stores player profiles (username, email, age and
// trophy counts) in SQL. Creation never overwrites an existing player and
// updates merge only the submitted fields.
package profilesvc
