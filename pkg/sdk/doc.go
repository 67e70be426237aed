// Package strindex embeds the string analysis engine in a Go program
// without running the HTTP server.
//
// Strings are analyzed on insertion and kept in process memory. They can be
// fetched by value, filtered with a typed Filter or queried with a short
// English phrase.
//
//	client, _ := strindex.New(strindex.WithMaxRecords(10_000))
//	_, _ = client.Add(ctx, "racecar")
//	_, _ = client.Add(ctx, "hello world")
//
//	pal := true
//	res, _ := client.List(ctx, strindex.Filter{IsPalindrome: &pal})
//
//	res, q, _ := client.Query(ctx, "single word palindromic strings")
//	fmt.Println(q.Filter.WordCount) // 1
package strindex
