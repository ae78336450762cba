// Package dataverse queries Microsoft Dataverse tables through the OData
// Web API.
//
// A query fetches pages of up to DefaultPageSize rows until the requested
// record count (capped at MaxRecords) is reached or MaxPages pages have
// been read. A next link left over at that point becomes a warning on the
// result. Formatted-value annotations are kept as "<field>_formatted";
// every other OData annotation is dropped.
package dataverse
