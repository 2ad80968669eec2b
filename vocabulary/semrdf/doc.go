// Package semrdf provides dotted predicates for model mappings.
//
// Mappings may name a predicate either by its full IRI or by a dotted
// predicate registered here. Dotted predicates follow the semstreams
// vocabulary conventions:
//   - Predicates use three-level dotted notation (domain.category.property)
//   - Predicates are registered in init() using vocabulary.Register()
//   - IRI mappings use vocabulary.WithIRI() so triples published to the
//     knowledge graph translate back to standard IRIs on export
//
// # Usage
//
//	type Person struct {
//	    rdfmodel.RDFModel
//	    Name string `rdf:"foaf.person.name,required"`
//	}
//
// Applications add their own predicates with Register:
//
//	semrdf.Register("acme.order.total", "https://acme.example/total",
//	    "Order total in cents", "int")
package semrdf
