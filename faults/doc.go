/*
API fault model: error kinds, HTTP status classes and the mapping between them.

This package defines four main objects for handling errors:

• Kind defines a kind of error that business logic can return, such as NotFound.

• Error is an instance of an error which carries a Kind.

• StatusClass defines an HTTP status class such as HTTPNotFound, with the API fault
name it is reported under.

• Fault is the rendered form of a failure: a fault name, a numeric code and a message.

An ExceptionMap, built once from a StatusTable, decides which StatusClass an Error is
reported as. Unregistered kinds are reported as HTTPBadRequest.

Default Kind and StatusClass Variables

Several pointers to Kind and StatusClass definitions are included in this package.
They are read-only once the process has started.
*/
package faults
