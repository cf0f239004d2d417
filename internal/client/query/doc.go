// Package query filters, sorts, paginates and summarizes certificate lists.
//
// Every operation is a pure function of its inputs, parameterized by a
// Columns table that says how to read a record kind. View keeps the list
// state of one screen and resets the page whenever the result set changes
// shape.
package query
