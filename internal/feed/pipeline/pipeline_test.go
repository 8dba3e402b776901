package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestOrdered_PreservesSubmissionOrder(t *testing.T) {
	// Later tasks finish faster, so workers complete out of order.
	process := func(n int) (int, error) {
		time.Sleep(time.Duration(21-n) * time.Millisecond)
		return n * 10, nil
	}
	p := New(process, 4, 8)
	defer p.Close()

	ctx := context.Background()
	const total = 20

	go func() {
		for i := 1; i <= total; i++ {
			if err := p.Submit(ctx, i); err != nil {
				return
			}
		}
	}()

	for i := 1; i <= total; i++ {
		got, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != i*10 {
			t.Fatalf("result %d arrived out of order: got %d", i, got)
		}
	}
}

// Tasks complete in the order 3, 1, 2, 5, 4 while results still come out as
// 1, 2, 3, 4, 5. Every task blocks until explicitly released.
func TestOrdered_OutOfOrderCompletion(t *testing.T) {
	const total = 5

	started := make([]chan struct{}, total+1)
	release := make([]chan struct{}, total+1)
	for i := 1; i <= total; i++ {
		started[i] = make(chan struct{})
		release[i] = make(chan struct{})
	}

	process := func(n int) (int, error) {
		close(started[n])
		<-release[n]
		return n, nil
	}
	p := New(process, total, 2)
	defer p.Close()

	ctx := context.Background()

	go func() {
		for i := 1; i <= total; i++ {
			if err := p.Submit(ctx, i); err != nil {
				return
			}
		}
	}()

	go func() {
		for _, n := range []int{3, 1, 2, 5, 4} {
			<-started[n]
			close(release[n])
		}
	}()

	for i := 1; i <= total; i++ {
		got, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != i {
			t.Fatalf("expected %d, got %d", i, got)
		}
	}
}

func TestOrdered_ErrorStaysAtItsPosition(t *testing.T) {
	errBad := errors.New("bad input")
	process := func(n int) (int, error) {
		if n == 3 {
			return 0, errBad
		}
		return n, nil
	}
	p := New(process, 4, 4)
	defer p.Close()

	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		if err := p.Submit(ctx, i); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	for i := 1; i <= 4; i++ {
		got, err := p.Next(ctx)
		if i == 3 {
			if !errors.Is(err, errBad) {
				t.Fatalf("expected error at position 3, got %v", err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if got != i {
			t.Fatalf("expected %d, got %d", i, got)
		}
	}
}

func TestOrdered_SubmitBlocksAtWindow(t *testing.T) {
	block := make(chan struct{})
	process := func(n int) (int, error) {
		<-block
		return n, nil
	}
	p := New(process, 1, 1)
	defer p.Close()
	defer close(block)

	ctx := context.Background()
	if err := p.Submit(ctx, 1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	submitted := make(chan error, 1)
	go func() {
		submitted <- p.Submit(ctx, 2)
	}()

	select {
	case err := <-submitted:
		t.Fatalf("second submit did not block: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	go func() {
		for i := 0; i < 2; i++ {
			block <- struct{}{}
		}
	}()

	if got, err := p.Next(ctx); err != nil || got != 1 {
		t.Fatalf("Next: got %d, %v", got, err)
	}
	if err := <-submitted; err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if got, err := p.Next(ctx); err != nil || got != 2 {
		t.Fatalf("Next: got %d, %v", got, err)
	}
}

func TestOrdered_CloseUnblocksCallers(t *testing.T) {
	process := func(n int) (int, error) {
		return n, nil
	}
	p := New(process, 1, 1)

	ctx := context.Background()
	if err := p.Submit(ctx, 1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	results := make(chan error, 2)
	go func() {
		defer wg.Done()
		// Window already reserved by the first task's unread result
		// staying in pending; this submit may succeed or block
		// depending on scheduling, but must not survive Close.
		for i := 2; ; i++ {
			if err := p.Submit(ctx, i); err != nil {
				results <- err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			if _, err := p.Next(ctx); err != nil {
				results <- err
				return
			}
		}
	}()

	time.Sleep(20 * time.Millisecond)
	p.Close()
	wg.Wait()

	close(results)
	for err := range results {
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	}
}

func TestOrdered_NextHonorsContext(t *testing.T) {
	process := func(n int) (int, error) {
		time.Sleep(time.Hour)
		return n, nil
	}
	p := New(process, 1, 1)
	defer p.Close()

	if err := p.Submit(context.Background(), 1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

// A Next call that gives up waiting must not lose the sequence position it
// dequeued; the following call delivers that task's result.
func TestOrdered_CanceledNextKeepsPosition(t *testing.T) {
	release := make(chan struct{})
	process := func(n int) (int, error) {
		<-release
		return n * 10, nil
	}
	p := New(process, 1, 1)
	defer p.Close()

	if err := p.Submit(context.Background(), 1); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	close(release)
	got, err := p.Next(context.Background())
	if err != nil {
		t.Fatalf("Next after canceled call: %v", err)
	}
	if got != 10 {
		t.Fatalf("expected the abandoned task's result, got %d", got)
	}
}

func ExampleOrdered() {
	p := New(func(n int) (string, error) {
		return fmt.Sprintf("block-%d", n), nil
	}, 4, 8)
	defer p.Close()

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_ = p.Submit(ctx, i)
	}
	for i := 1; i <= 3; i++ {
		out, _ := p.Next(ctx)
		fmt.Println(out)
	}
	// Output:
	// block-1
	// block-2
	// block-3
}
