// Package chop provides typed attribute models with change notification.
//
// A model stores a fixed set of named attributes. The set is declared once as
// a [Schema] over a Go struct, and each attribute is an [Attr] that ties the
// attribute name to the struct field and its type. Reads and writes go
// through the attribute, so the compiler checks that a value matches the
// attribute it is written to.
//
// # Declaring a Schema
//
//	type Player struct {
//	    Name  string
//	    Score int
//	    Tags  []string
//	}
//
//	var (
//	    Players = chop.NewSchema[Player]("player")
//
//	    Name  = chop.Define(Players, "name", func(p *Player) *string { return &p.Name })
//	    Score = chop.Define(Players, "score", func(p *Player) *int { return &p.Score }, chop.Default(100))
//	    Tags  = chop.Define(Players, "tags", func(p *Player) *[]string { return &p.Tags },
//	        chop.DefaultFunc(func() []string { return []string{"new"} }))
//	)
//
// # Reading and Writing
//
//	p := chop.New(Players, []chop.Assignment[Player]{Name.To("alice")})
//
//	name := chop.Get(p, Name)   // "alice"
//	score := chop.Get(p, Score) // 100, the default
//
//	chop.Set(p, Score, 120)
//	p.Fill([]chop.Assignment[Player]{Name.To("bob"), Score.To(130)})
//
// Attributes that are not part of the schema cannot be named, and a value of
// the wrong type does not compile. [Model.Lookup], [Model.SetAttr] and
// [Model.FillMap] provide the same operations by name for dynamic callers.
//
// # Change Events
//
// Every write compares the incoming value with the stored one using
// structural equality. Each attribute whose value actually changed triggers a
// "changed:<name>" event carrying the model and the new value:
//
//	p.OnAttrChanged(Score, Score.Changed(func(p *chop.Model[Player], score int) {
//	    fmt.Println("score is now", score)
//	}), nil)
//
//	chop.Set(p, Score, 130) // no event, the value is unchanged
//	chop.Set(p, Score, 140) // prints "score is now 140"
//
// Pass [Silent] to store values without notifying anyone. Events are
// dispatched synchronously by the [github.com/spetersoncode/chop/event]
// package; listeners may write to the model again, and the nested write
// completes before the outer dispatch continues.
//
// # Snapshots
//
// [Model.Snapshot] returns a shallow copy of the attribute struct;
// [Model.ToMap] and the JSON encoding key the same values by attribute name.
package chop
